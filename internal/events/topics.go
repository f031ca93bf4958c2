package events

// Topic constants for domain events emitted by the service.
const (
	TopicCatalogReloaded = "catalog.reloaded"
	TopicSessionCreated  = "session.created"
	TopicSessionUpdated  = "session.updated"
	TopicBillRecomputed  = "bill.recomputed"
	TopicInvoiceRendered = "invoice.rendered"
	TopicImportCompleted = "import.completed"
)

// DefaultTopics returns the canonical list of topics emitted by the service.
func DefaultTopics() []string {
	return []string{
		TopicCatalogReloaded,
		TopicSessionCreated,
		TopicSessionUpdated,
		TopicBillRecomputed,
		TopicInvoiceRendered,
		TopicImportCompleted,
	}
}

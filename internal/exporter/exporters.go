package exporter

// Batch sizes of the paginated exporters.
const (
	ActivityBatch      = 50
	MessagesBatch      = 10
	GroupsBatch        = 20
	FriendsBatch       = 50
	NotificationsBatch = 50
)

// Exporters binds the category callbacks to a host, its hooks and a
// translation catalog.
type Exporters struct {
	host  Host
	hooks *Hooks
	tr    Translator
}

// New returns the exporters for host. A nil hooks or tr is allowed.
func New(host Host, hooks *Hooks, tr Translator) *Exporters {
	if hooks == nil {
		hooks = NewHooks()
	}
	if tr == nil {
		tr = untranslated{}
	}
	return &Exporters{host: host, hooks: hooks, tr: tr}
}

func (e *Exporters) yesNo(v bool) string {
	if v {
		return e.tr.T("Yes")
	}
	return e.tr.T("No")
}

func (e *Exporters) field(name, value string) Field {
	return Field{Name: e.tr.T(name), Value: value}
}

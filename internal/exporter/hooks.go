package exporter

import "bpexport/internal/domain"

// ActivityFormatter renders the description of one activity type.
type ActivityFormatter func(a domain.Activity) (string, error)

// NotificationFormatter renders the content of a component's notifications.
type NotificationFormatter func(n domain.Notification) (string, error)

// NotificationFilter rewrites notification content for components without a
// formatter. The chain is seeded with the notification's component action.
type NotificationFilter func(content string, n domain.Notification) string

// ActivityEnricher may append fields to an exported activity item.
type ActivityEnricher func(item Item, a domain.Activity) Item

// Hooks holds the formatting and extension points other components register.
// Register everything before the exporters run; lookups are not locked.
type Hooks struct {
	activityFormatters     map[string]ActivityFormatter
	notificationFormatters map[string]NotificationFormatter
	notificationFilters    []NotificationFilter
	activityEnrichers      []ActivityEnricher
}

// NewHooks returns an empty registry.
func NewHooks() *Hooks {
	return &Hooks{
		activityFormatters:     make(map[string]ActivityFormatter),
		notificationFormatters: make(map[string]NotificationFormatter),
	}
}

// RegisterActivityFormatter sets the formatter for activities of the given
// component and type, replacing any previous one.
func (h *Hooks) RegisterActivityFormatter(component, activityType string, f ActivityFormatter) {
	h.activityFormatters[component+"/"+activityType] = f
}

// RegisterNotificationFormatter sets the formatter for a component's
// notifications, replacing any previous one.
func (h *Hooks) RegisterNotificationFormatter(component string, f NotificationFormatter) {
	h.notificationFormatters[component] = f
}

// AddNotificationFilter appends f to the fallback chain.
func (h *Hooks) AddNotificationFilter(f NotificationFilter) {
	h.notificationFilters = append(h.notificationFilters, f)
}

// AddActivityEnricher appends f; enrichers run in registration order.
func (h *Hooks) AddActivityEnricher(f ActivityEnricher) {
	h.activityEnrichers = append(h.activityEnrichers, f)
}

// DescribeActivity returns the registered formatter's output, else the
// stored action, else the activity type.
func (h *Hooks) DescribeActivity(a domain.Activity) (string, error) {
	if h != nil {
		if f, ok := h.activityFormatters[a.Component+"/"+a.Type]; ok && f != nil {
			return f(a)
		}
	}
	if a.Action != "" {
		return a.Action, nil
	}
	return a.Type, nil
}

// FormatNotification resolves the notification's display content.
func (h *Hooks) FormatNotification(n domain.Notification) (string, error) {
	component := n.ComponentName
	// xprofile registers its formatter under its slug.
	if component == ComponentXProfile {
		component = "profile"
	}
	if h != nil {
		if f, ok := h.notificationFormatters[component]; ok && f != nil {
			return f(n)
		}
	}
	content := n.ComponentAction
	if h != nil {
		for _, f := range h.notificationFilters {
			content = f(content, n)
		}
	}
	return content, nil
}

// EnrichActivity runs the activity enrichers over item.
func (h *Hooks) EnrichActivity(item Item, a domain.Activity) Item {
	if h == nil {
		return item
	}
	for _, f := range h.activityEnrichers {
		item = f(item, a)
	}
	return item
}

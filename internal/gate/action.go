package gate

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionList   Action = "list"
	ActionCancel Action = "cancel"
	ActionPay    Action = "pay"
	ActionUpdate Action = "update"
)

package ports

type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastDanger  ToastLevel = "danger"
)

type Toast struct {
	Level   ToastLevel
	Title   string
	Message string
}

type Notifier interface {
	Notify(toast Toast)
}

type NopNotifier struct{}

func (NopNotifier) Notify(Toast) {}

package audit

// Notifier publica cambios de registros a los suscriptores en vivo (WebSocket).
// Un notifier nil se ignora.
type Notifier interface {
	Notify(resource, action, id string)
}

func notify(n Notifier, resource, action, id string) {
	if n != nil {
		n.Notify(resource, action, id)
	}
}

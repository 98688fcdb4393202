package domain

// Command representa uma intenção de alterar o estado do sistema.
type Command[T any] interface {
	CommandName() string
	Payload() T
}

// Query pede dados sem alterar estado.
type Query[T any] interface {
	QueryName() string
	Payload() T
}

// Event registra algo que já aconteceu. O nome também é o tópico de publicação.
type Event[T any] interface {
	EventName() string
	Payload() T
}

// IDGenerator produz identificadores para mensagens e requisições.
type IDGenerator[T any] func() T

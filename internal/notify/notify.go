package notify

import "log"

// Aviso ao tutor disparado fora da seção crítica, depois do commit.
// Falha aqui nunca desfaz o agendamento.

type Message struct {
	PetshopID uint
	OwnerName string
	Whatsapp  string
	Text      string
}

type Notifier interface {
	Send(msg Message) error
}

// LogNotifier registra a intenção de envio. O disparo real (WhatsApp,
// push) fica com a camada externa.
type LogNotifier struct{}

func (LogNotifier) Send(msg Message) error {
	log.Printf("notify: [petshop %d] %s (%s): %s", msg.PetshopID, msg.OwnerName, msg.Whatsapp, msg.Text)
	return nil
}

type Dispatcher struct {
	notifier Notifier
	queue    chan Message
}

func NewDispatcher(notifier Notifier) *Dispatcher {
	d := &Dispatcher{
		notifier: notifier,
		queue:    make(chan Message, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for msg := range d.queue {
		if err := d.notifier.Send(msg); err != nil {
			log.Println("notify error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(msg Message) {
	select {
	case d.queue <- msg:
	default:
		log.Println("notify queue full, dropping message")
	}
}

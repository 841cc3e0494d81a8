package manager

import "github.com/rs/zerolog"

// ZerologPublisher writes manager events through a structured logger. Used
// by the daemon so lifecycle transitions show up in the service log.
type ZerologPublisher struct {
	log zerolog.Logger
}

func NewZerologPublisher(log zerolog.Logger) *ZerologPublisher {
	return &ZerologPublisher{log: log}
}

func (p *ZerologPublisher) Publish(e Event) {
	ev := p.log.Info().Str("event", e.Name)
	if e.DeviceUID != "" {
		ev = ev.Str("device", e.DeviceUID)
	}
	for k, v := range e.Fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg("manager event")
}

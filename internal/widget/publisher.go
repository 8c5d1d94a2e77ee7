package widget

import "github.com/eleven-am/zone-feedback/internal/dictation"

// framePublisher forwards dictation signals to the widget page.
type framePublisher struct {
	conn    frameSender
	onError func(msg string)
}

func (p *framePublisher) PublishText(text string) {
	_ = p.conn.Send(ServerFrame{Type: FrameDictationText, Payload: TextPayload{Text: text}})
}

func (p *framePublisher) PublishState(state dictation.State) {
	_ = p.conn.Send(ServerFrame{Type: FrameDictationState, Payload: StatePayload{State: state}})
}

func (p *framePublisher) PublishError(msg string) {
	_ = p.conn.Send(ServerFrame{Type: FrameDictationError, Payload: ErrorPayload{Message: msg}})
	if msg != "" && p.onError != nil {
		p.onError(msg)
	}
}

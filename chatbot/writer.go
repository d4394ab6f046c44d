package chatbot

import "context"

// Writer observes workflow progress: transient status lines while a step
// runs, and transcript messages as they are produced. The UI decides how to
// render both.
type Writer interface {
	Status(text string)
	Message(msg Message)
}

// NopWriter discards everything.
type NopWriter struct{}

func (NopWriter) Status(string)   {}
func (NopWriter) Message(Message) {}

type writerKey struct{}

// WithWriter attaches a progress writer to the context. Workflow nodes
// retrieve it with writerFrom; a context without one gets a NopWriter, so
// nodes never need a nil check.
func WithWriter(ctx context.Context, w Writer) context.Context {
	return context.WithValue(ctx, writerKey{}, w)
}

func writerFrom(ctx context.Context) Writer {
	if w, ok := ctx.Value(writerKey{}).(Writer); ok && w != nil {
		return w
	}
	return NopWriter{}
}

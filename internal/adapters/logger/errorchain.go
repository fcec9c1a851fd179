package logger

import "strings"

// messager is satisfied by layered errors that carry a per-layer
// message, such as the ones zerr builds.
type messager interface {
	Message() string
}

// causeChain flattens err into its per-layer messages, outermost
// first. Layers exposing Message() contribute that message; the first
// error without one contributes its full Error() text and ends the
// walk. Empty and repeated adjacent messages are dropped.
func causeChain(err error) []string {
	var chain []string
	push := func(msg string) {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			return
		}
		if len(chain) > 0 && chain[len(chain)-1] == msg {
			return
		}
		chain = append(chain, msg)
	}

	for err != nil {
		m, ok := err.(messager)
		if !ok {
			push(err.Error())
			break
		}
		push(m.Message())
		err = unwrap(err)
	}
	return chain
}

func unwrap(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}

// renderCauseChain renders a chain as a root line followed by
// indented causes:
//
//	error: notebook run failed
//	  caused by: build failed
//	  caused by: sh: main.sh: syntax error
func renderCauseChain(chain []string) string {
	if len(chain) == 0 {
		return "error: unknown error"
	}

	var b strings.Builder
	writeIndented(&b, "error: ", chain[0])
	for _, cause := range chain[1:] {
		b.WriteString("\n")
		writeIndented(&b, "  caused by: ", cause)
	}
	return b.String()
}

// writeIndented writes prefix followed by msg, aligning any further
// lines of msg under the start of the message text.
func writeIndented(b *strings.Builder, prefix, msg string) {
	b.WriteString(prefix)
	pad := strings.Repeat(" ", len(prefix))
	for i, line := range strings.Split(msg, "\n") {
		if i > 0 {
			b.WriteString("\n")
			b.WriteString(pad)
		}
		b.WriteString(line)
	}
}

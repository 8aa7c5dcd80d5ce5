package emailsvc

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/turnin/core"
)

type consoleService struct {
	out           io.Writer
	disableOutput bool
}

var _ core.EmailService = (*consoleService)(nil)

// NewConsoleService prints messages to out instead of sending them.
func NewConsoleService(out io.Writer) core.EmailService {
	return &consoleService{out: out}
}

func (svc *consoleService) SendMessages(_ context.Context, messages ...*core.EmailMessage) error {
	for _, msg := range messages {
		if _, err := svc.sendMessage(msg); err != nil {
			return err
		}
	}
	return nil
}

func (svc *consoleService) sendMessage(msg *core.EmailMessage) (bool, error) {
	if err := msg.Render(); err != nil {
		return false, errors.Wrap(err, "rendering email")
	}
	if !msg.HasRecipients() || !msg.HasContent() {
		return false, nil
	}
	if !svc.disableOutput {
		body := new(strings.Builder)
		_, _ = fmt.Fprintf(body, "MAIL FROM: %s\n", msg.From.Address)
		_, _ = fmt.Fprintf(body, "RCPT TO: %s\n", strings.Join(msg.Recipients(), ", "))
		body.Write(msg.Bytes())
		body.WriteString("\n\n")
		if _, err := io.WriteString(svc.out, body.String()); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (svc *consoleService) Close() error { return nil }

// ConsoleServiceMock records sent messages without printing them.
type ConsoleServiceMock struct {
	consoleService

	mu           sync.Mutex
	SentMessages []core.EmailMessage
	Closed       bool
}

func NewConsoleServiceMock() *ConsoleServiceMock {
	return &ConsoleServiceMock{consoleService: consoleService{disableOutput: true}}
}

func (svc *ConsoleServiceMock) SendMessages(_ context.Context, messages ...*core.EmailMessage) error {
	for _, msg := range messages {
		sent, err := svc.sendMessage(msg)
		if err != nil {
			return err
		}
		if sent {
			svc.mu.Lock()
			svc.SentMessages = append(svc.SentMessages, *msg)
			svc.mu.Unlock()
		}
	}
	return nil
}

func (svc *ConsoleServiceMock) Close() error {
	svc.Closed = true
	return nil
}

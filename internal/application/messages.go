package application

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/JonMunkholm/dgref/internal/ai"
	"github.com/JonMunkholm/dgref/internal/core"
)

// AskTimeout bounds an assistant request started from the terminal. The
// assistant applies its own provider timeout inside this one.
var AskTimeout = 2 * time.Minute

type (
	// DoneMsg reports a finished background action.
	DoneMsg string

	// ErrMsg reports a failed background action.
	ErrMsg struct{ Err error }

	// answerMsg carries an assistant answer.
	answerMsg struct {
		title  string
		answer ai.Answer
	}

	openTableMsg   struct{ key string }
	openChapterMsg struct{ id string }

	// promptMsg opens the input line; submit turns the text into a command.
	promptMsg struct {
		label  string
		submit func(m *Model, value string) tea.Cmd
	}
)

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// askCmd runs one assistant request off the UI goroutine.
func askCmd(title string, run func(ctx context.Context) ai.Answer) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), AskTimeout)
		defer cancel()
		return answerMsg{title: title, answer: run(ctx)}
	}
}

// chatCmd asks a free-form question.
func chatCmd(assistant *ai.Assistant, question string) tea.Cmd {
	return askCmd("Assistant", func(ctx context.Context) ai.Answer {
		return assistant.Chat(ctx, question)
	})
}

// verifyCmd asks the assistant to check one UN entry.
func verifyCmd(assistant *ai.Assistant, entry core.Record) tea.Cmd {
	return askCmd("Verify UN "+entry.Text("un"), func(ctx context.Context) ai.Answer {
		return assistant.VerifyRecord(ctx, core.DatasetUNEntries, entry)
	})
}

// auditCmd asks the assistant to audit a shipment.
func auditCmd(assistant *ai.Assistant, shipment ai.Shipment) tea.Cmd {
	return askCmd("Shipment audit", func(ctx context.Context) ai.Answer {
		return assistant.AuditShipment(ctx, shipment)
	})
}

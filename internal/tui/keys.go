package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"golang.org/x/text/message"

	"github.com/verte-zerg/stamina/internal/i18n"
)

type keyMap struct {
	Type     key.Binding
	Easier   key.Binding
	Harder   key.Binding
	Exit     key.Binding
	History  key.Binding
	Quit     key.Binding
	Continue key.Binding
	Finish   key.Binding
	Close    key.Binding
}

func newKeyMap(p *message.Printer) keyMap {
	letters := make([]string, 0, 26)
	for r := 'a'; r <= 'z'; r++ {
		letters = append(letters, string(r))
	}
	return keyMap{
		Type:     key.NewBinding(key.WithKeys(letters...), key.WithHelp("a-z", p.Sprintf(i18n.MsgHelpType))),
		Easier:   key.NewBinding(key.WithKeys("left", "-"), key.WithHelp("←/→ -/+=", p.Sprintf(i18n.MsgHelpDifficulty))),
		Harder:   key.NewBinding(key.WithKeys("right", "+", "="), key.WithHelp("→/+", p.Sprintf(i18n.MsgHelpDifficulty))),
		Exit:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", p.Sprintf(i18n.MsgHelpExit))),
		History:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", p.Sprintf(i18n.MsgHelpHistory))),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", p.Sprintf(i18n.MsgHelpQuit))),
		Continue: key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("enter/y", p.Sprintf(i18n.MsgHelpContinue))),
		Finish:   key.NewBinding(key.WithKeys("n", "q"), key.WithHelp("n/q", p.Sprintf(i18n.MsgHelpFinish))),
		Close:    key.NewBinding(key.WithKeys("esc", "tab"), key.WithHelp("esc/tab", p.Sprintf(i18n.MsgHelpExit))),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Type, k.Easier, k.History, k.Exit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Type, k.Easier, k.Harder},
		{k.History, k.Exit, k.Quit},
		{k.Continue, k.Finish},
	}
}

type promptKeys struct {
	continueKey key.Binding
	finishKey   key.Binding
}

// ShortHelp implements help.KeyMap.
func (k promptKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.continueKey, k.finishKey}
}

// FullHelp implements help.KeyMap.
func (k promptKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

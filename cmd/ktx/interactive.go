package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	ktx2 "github.com/wippyai/ktx2-wasm"
	"github.com/wippyai/ktx2-wasm/format"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	opStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#98FB98"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// opInfo describes one texture operation the inspector can run.
type opInfo struct {
	name   string
	desc   string
	params []paramInfo
	call   func(m *interactiveModel, args []string) (string, error)
}

type paramInfo struct {
	name string
	hint string
}

type modelState int

const (
	stateSelectOp modelState = iota
	stateInputArgs
	stateShowResult
)

type interactiveModel struct {
	err      error
	cleanup  func()
	tex      *ktx2.Texture
	lib      ktx2.Library
	libFile  string
	mounts   string
	texFile  string
	result   string
	ops      []opInfo
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

func newInteractiveModel(libFile, mounts, texFile string) *interactiveModel {
	return &interactiveModel{
		libFile: libFile,
		mounts:  mounts,
		texFile: texFile,
		state:   stateSelectOp,
	}
}

type loadedMsg struct {
	err     error
	cleanup func()
	lib     ktx2.Library
	tex     *ktx2.Texture
}

type callResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadTexture
}

func (m *interactiveModel) loadTexture() tea.Msg {
	ctx := context.Background()

	lib, cleanup, err := loadLibrary(ctx, m.libFile, m.mounts)
	if err != nil {
		return loadedMsg{err: err}
	}

	var tex *ktx2.Texture
	if m.texFile != "" {
		data, err := os.ReadFile(m.texFile)
		if err != nil {
			cleanup()
			return loadedMsg{err: err}
		}
		tex, err = ktx2.TextureFromMemory(ctx, lib, data)
		if err != nil {
			cleanup()
			return loadedMsg{err: err}
		}
	}

	return loadedMsg{lib: lib, tex: tex, cleanup: cleanup}
}

func (m *interactiveModel) operations() []opInfo {
	ops := []opInfo{
		{
			name: "open",
			desc: "load a KTX2 file",
			params: []paramInfo{
				{name: "path", hint: "host path to .ktx2"},
			},
			call: func(m *interactiveModel, args []string) (string, error) {
				ctx := context.Background()
				data, err := os.ReadFile(args[0])
				if err != nil {
					return "", err
				}
				tex, err := ktx2.TextureFromMemory(ctx, m.lib, data)
				if err != nil {
					return "", err
				}
				if m.tex != nil {
					m.tex.Close(ctx)
				}
				m.tex = tex
				m.texFile = args[0]
				return tex.String(), nil
			},
		},
		{
			name: "info",
			desc: "show texture properties",
			call: func(m *interactiveModel, _ []string) (string, error) {
				if m.tex == nil {
					return "", fmt.Errorf("no texture loaded")
				}
				return fmt.Sprintf("%s\nneeds transcoding: %v",
					m.tex.String(), m.tex.NeedsTranscoding(context.Background())), nil
			},
		},
		{
			name: "metadata",
			desc: "look up a metadata key",
			params: []paramInfo{
				{name: "key", hint: "e.g. KTXorientation"},
			},
			call: func(m *interactiveModel, args []string) (string, error) {
				if m.tex == nil {
					return "", fmt.Errorf("no texture loaded")
				}
				value, err := m.tex.Metadata(context.Background(), args[0])
				if err != nil {
					return "", err
				}
				return string(value), nil
			},
		},
		{
			name: "set-metadata",
			desc: "store a metadata value",
			params: []paramInfo{
				{name: "key", hint: "metadata key"},
				{name: "value", hint: "metadata value"},
			},
			call: func(m *interactiveModel, args []string) (string, error) {
				if m.tex == nil {
					return "", fmt.Errorf("no texture loaded")
				}
				if err := m.tex.SetMetadata(context.Background(), args[0], []byte(args[1])); err != nil {
					return "", err
				}
				return "stored " + args[0], nil
			},
		},
		{
			name: "compress",
			desc: "Basis ETC1S compression",
			params: []paramInfo{
				{name: "quality", hint: "1-255"},
			},
			call: func(m *interactiveModel, args []string) (string, error) {
				if m.tex == nil {
					return "", fmt.Errorf("no texture loaded")
				}
				quality, err := strconv.ParseUint(args[0], 10, 32)
				if err != nil {
					return "", fmt.Errorf("quality: %w", err)
				}
				if err := m.tex.CompressBasis(context.Background(), uint32(quality)); err != nil {
					return "", err
				}
				return "compressed", nil
			},
		},
		{
			name: "transcode",
			desc: "transcode to a GPU format",
			params: []paramInfo{
				{name: "format", hint: "e.g. BC7_RGBA, ASTC_4x4_RGBA"},
			},
			call: func(m *interactiveModel, args []string) (string, error) {
				if m.tex == nil {
					return "", fmt.Errorf("no texture loaded")
				}
				target, ok := format.ParseTranscodeFormat(args[0])
				if !ok {
					return "", fmt.Errorf("unknown format %q", args[0])
				}
				if err := m.tex.Transcode(context.Background(), target); err != nil {
					return "", err
				}
				return "transcoded to " + target.String(), nil
			},
		},
		{
			name: "write",
			desc: "serialize to a file",
			params: []paramInfo{
				{name: "path", hint: "host path for output"},
			},
			call: func(m *interactiveModel, args []string) (string, error) {
				if m.tex == nil {
					return "", fmt.Errorf("no texture loaded")
				}
				data, err := m.tex.WriteToMemory(context.Background())
				if err != nil {
					return "", err
				}
				if err := os.WriteFile(args[0], data, 0o644); err != nil {
					return "", err
				}
				return fmt.Sprintf("wrote %s (%d bytes)", args[0], len(data)), nil
			},
		},
	}
	return ops
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.close()
			return m, tea.Quit

		case "q":
			// Typing stays usable in argument fields.
			if m.state != stateInputArgs {
				m.close()
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectOp && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectOp && m.selected < len(m.ops)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectOp:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callOperation
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callOperation

			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectOp
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectOp
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.lib = msg.lib
		m.tex = msg.tex
		m.cleanup = msg.cleanup
		m.ops = m.operations()

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) close() {
	if m.tex != nil {
		m.tex.Close(context.Background())
	}
	if m.cleanup != nil {
		m.cleanup()
	}
}

func (m *interactiveModel) prepareInputs() {
	op := m.ops[m.selected]
	m.inputs = make([]textinput.Model, len(op.params))
	for i, p := range op.params {
		ti := textinput.New()
		ti.Placeholder = p.hint
		ti.Prompt = p.name + ": "
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callOperation() tea.Msg {
	op := m.ops[m.selected]
	args := make([]string, len(m.inputs))
	for i, input := range m.inputs {
		args[i] = input.Value()
	}

	result, err := op.call(m, args)
	if err != nil {
		return callResultMsg{err: err}
	}
	return callResultMsg{result: result}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.ops) == 0 {
		return "Loading library..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("KTX2 Inspector"))
	if m.texFile != "" {
		b.WriteString(" ")
		b.WriteString(m.texFile)
	}
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectOp:
		b.WriteString("Select an operation:\n\n")
		for i, op := range m.ops {
			line := opStyle.Render(op.name) + "  " + hintStyle.Render(op.desc)
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> ") + line)
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter run • q quit"))

	case stateInputArgs:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Running %s\n\n", opStyle.Render(op.name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(hintStyle.Render(op.params[i].hint))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter run • esc back"))

	case stateShowResult:
		op := m.ops[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", opStyle.Render(op.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(libFile, mounts, texFile string) error {
	p := tea.NewProgram(newInteractiveModel(libFile, mounts, texFile), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

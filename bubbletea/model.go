package bubbletea

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/imagechat"
	"github.com/mattn/go-runewidth"
)

var _ tea.Model = Model{}

const maxAttachmentLabel = 24

// Model is the Bubble Tea model for the imagechat TUI.
type Model struct {
	// Input is the prompt field. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable conversation. Exported for test access.
	Viewport viewport.Model
	// Spinner is shown while a submission is in flight.
	Spinner spinner.Model

	orch    *imagechat.Orchestrator
	theme   imagechat.Theme
	styles  Styles
	saver   imagechat.ImageSaver
	viewer  imagechat.Viewer
	resolve func(string) (string, error)

	blocks []MessageBlock
	synced int // conversation messages already turned into blocks

	aspect     imagechat.AspectRatio
	variations int
	attachment *imagechat.Attachment

	busy      bool
	quitArmed bool
	err       error
	ready     bool
}

// Option configures a Model.
type Option func(*Model)

// WithSaver sets where images are saved by Ctrl+S, /save and /open.
func WithSaver(s imagechat.ImageSaver) Option {
	return func(m *Model) { m.saver = s }
}

// WithViewer sets how /open displays a saved image.
func WithViewer(v imagechat.Viewer) Option {
	return func(m *Model) { m.viewer = v }
}

// WithResolver sets how /attach arguments become file paths. Default uses
// the argument as typed.
func WithResolver(f func(string) (string, error)) Option {
	return func(m *Model) { m.resolve = f }
}

// WithAspectRatio sets the initially selected aspect ratio.
func WithAspectRatio(a imagechat.AspectRatio) Option {
	return func(m *Model) { m.aspect = a }
}

// WithVariations sets the initially selected variation count.
func WithVariations(n int) Option {
	return func(m *Model) { m.variations = n }
}

// New creates a TUI Model that submits through orch and displays its
// conversation.
func New(orch *imagechat.Orchestrator, theme imagechat.Theme, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "Descreva a imagem que deseja criar..."
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 0

	m := Model{
		Input:      ti,
		Spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		orch:       orch,
		theme:      theme,
		styles:     NewStyles(theme),
		resolve:    func(p string) (string, error) { return p, nil },
		aspect:     imagechat.AspectSquare,
		variations: 1,
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Busy returns whether a submission is in flight.
func (m Model) Busy() bool { return m.busy }

// Err returns the error of the last submission, if any.
func (m Model) Err() error { return m.err }

// AspectRatio returns the aspect ratio used for the next submission.
func (m Model) AspectRatio() imagechat.AspectRatio { return m.aspect }

// Variations returns the variation count used for the next submission.
func (m Model) Variations() int { return m.variations }

// Attachment returns the pending reference image, or nil.
func (m Model) Attachment() *imagechat.Attachment { return m.attachment }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		// The user's message is appended by the orchestrator once the
		// submission starts; pick it up while waiting.
		m = m.refresh()
		return m, cmd

	case SubmitDoneMsg:
		m.busy = false
		m.quitArmed = false
		m.err = msg.Err
		m = m.refresh()
		return m, m.Input.Focus()
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Inicializando..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusHeight := 1
	borderHeight := 2 // newlines between sections
	vpHeight := max(msg.Height-inputH-statusHeight-borderHeight, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Input.Width = max(msg.Width-len(m.Input.Prompt)-1, 1)
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if !m.busy || m.quitArmed {
			return m, tea.Quit
		}
		m.quitArmed = true
		return m.notice("Geração em andamento. Pressione Ctrl+C novamente para sair."), nil

	case tea.KeyEnter:
		text := strings.TrimSpace(m.Input.Value())
		if strings.HasPrefix(text, "/") {
			m.Input.SetValue("")
			return m.runCommand(text)
		}
		if m.busy || (text == "" && m.attachment == nil) {
			return m, nil
		}
		return m.submitInput(text)

	case tea.KeyCtrlO:
		m.aspect = m.aspect.Next()
		return m, nil

	case tea.KeyCtrlN:
		m.variations = m.variations%imagechat.MaxVariations + 1
		return m, nil

	case tea.KeyCtrlS:
		return m.saveLatest(), nil

	case tea.KeyCtrlR:
		if m.busy {
			return m, nil
		}
		return m.regenerateLatest(), nil
	}

	// Character keys go to the input only; 'j'/'k' and friends are also
	// viewport bindings.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submitInput(text string) (tea.Model, tea.Cmd) {
	s := imagechat.Submission{
		Prompt:      text,
		AspectRatio: m.aspect,
		Attachment:  m.attachment,
		Variations:  m.variations,
	}
	if err := s.Validate(); err != nil {
		return m.notice(err.Error()), nil
	}

	m.Input.SetValue("")
	m.Input.Blur()
	m.attachment = nil
	m.err = nil
	m.busy = true
	m.quitArmed = false

	return m, tea.Batch(submit(m.orch, s), m.Spinner.Tick)
}

// runCommand handles slash commands typed into the prompt.
func (m Model) runCommand(line string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, "/"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "attach":
		return m.attach(arg), nil
	case "detach":
		if m.attachment == nil {
			return m.notice("Nenhuma imagem de referência anexada."), nil
		}
		m.attachment = nil
		return m.notice("Imagem de referência removida."), nil
	case "save":
		return m.saveLatest(), nil
	case "open":
		var n int
		if _, err := fmt.Sscanf(arg, "%d", &n); err != nil {
			return m.notice("Uso: /open <número da imagem>"), nil
		}
		return m.openLatest(n), nil
	case "help":
		return m.notice(helpText), nil
	default:
		return m.notice(fmt.Sprintf("Comando desconhecido: /%s (use /help)", name)), nil
	}
}

const helpText = "/attach <arquivo> anexa uma imagem de referência (aceita padrões como ~/fotos/*.png); " +
	"/detach remove o anexo; /save salva as últimas imagens; /open <n> salva e abre a imagem n. " +
	"Ctrl+O muda a proporção, Ctrl+N o número de variações, Ctrl+R regenera."

func (m Model) attach(arg string) Model {
	if arg == "" {
		return m.notice("Uso: /attach <arquivo>")
	}
	path, err := m.resolve(arg)
	if err != nil {
		return m.notice(fmt.Sprintf("Não foi possível anexar %s: %v", arg, err))
	}
	info, err := os.Stat(path)
	if err != nil {
		return m.notice(fmt.Sprintf("Não foi possível anexar %s: %v", arg, err))
	}
	if info.IsDir() {
		return m.notice(fmt.Sprintf("Não foi possível anexar %s: é um diretório", arg))
	}
	m.attachment = &imagechat.Attachment{Path: path}
	return m.notice("Imagem de referência: " + m.attachment.Name())
}

// latestImages returns the most recent assistant message that has images.
func (m Model) latestImages() (imagechat.Message, bool) {
	msgs := m.orch.Conversation().Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Sender == imagechat.SenderAI && len(msgs[i].Images) > 0 {
			return msgs[i], true
		}
	}
	return imagechat.Message{}, false
}

func (m Model) saveLatest() Model {
	if m.saver == nil {
		return m.notice("Salvamento indisponível.")
	}
	msg, ok := m.latestImages()
	if !ok {
		return m.notice("Nenhuma imagem para salvar.")
	}
	for i := range msg.Images {
		path, err := m.saver.Save(msg, i)
		if err != nil {
			return m.notice(fmt.Sprintf("Falha ao salvar a imagem %d: %v", i+1, err))
		}
		m = m.success("Salvo: " + path)
	}
	return m
}

func (m Model) openLatest(n int) Model {
	if m.saver == nil || m.viewer == nil {
		return m.notice("Visualização indisponível.")
	}
	msg, ok := m.latestImages()
	if !ok {
		return m.notice("Nenhuma imagem para abrir.")
	}
	if n < 1 || n > len(msg.Images) {
		return m.notice(fmt.Sprintf("Imagem %d não existe; a última resposta tem %d.", n, len(msg.Images)))
	}
	path, err := m.saver.Save(msg, n-1)
	if err != nil {
		return m.notice(fmt.Sprintf("Falha ao salvar a imagem %d: %v", n, err))
	}
	if err := m.viewer.Open(path); err != nil {
		return m.notice(fmt.Sprintf("Falha ao abrir %s: %v", path, err))
	}
	return m.success("Aberto: " + path)
}

func (m Model) regenerateLatest() Model {
	msg, ok := m.orch.Conversation().LastFrom(imagechat.SenderAI)
	if !ok {
		return m.notice("Nada para regenerar.")
	}
	err := m.orch.Regenerate(msg.ID)
	switch {
	case errors.Is(err, imagechat.ErrRegenerateNotImplemented):
		return m.notice(imagechat.RegenerateNotice)
	case err != nil:
		return m.notice("Esta mensagem não pode ser regenerada.")
	default:
		return m
	}
}

func (m Model) notice(text string) Model {
	m.blocks = append(m.blocks, NewNoticeBlock(text, m.styles))
	return m.refresh()
}

func (m Model) success(text string) Model {
	m.blocks = append(m.blocks, NewSuccessBlock(text, m.styles))
	return m.refresh()
}

// refresh appends blocks for conversation messages not yet shown and
// re-renders the viewport.
func (m Model) refresh() Model {
	msgs := m.orch.Conversation().Messages()
	if m.synced > len(msgs) {
		m.synced = len(msgs)
	}
	for _, msg := range msgs[m.synced:] {
		m.blocks = append(m.blocks, blockFor(msg, m.theme, m.styles))
	}
	m.synced = len(msgs)

	if m.ready {
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
	}
	return m
}

func (m Model) renderContent() string {
	var b strings.Builder
	for i, block := range m.blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(block.View(m.Viewport.Width))
	}
	return b.String()
}

// errorStatus maps a failed submission to a fixed status text. The cause is
// logged by the orchestrator and never shown.
func errorStatus(err error) string {
	var cfgErr *imagechat.ConfigurationError
	if errors.As(err, &cfgErr) {
		return "Erro: defina " + cfgErr.Key + " para gerar imagens."
	}
	return "Erro ao gerar a imagem."
}

func (m Model) statusLine() string {
	width := m.Viewport.Width
	if m.busy {
		return m.styles.Muted.Render(runewidth.Truncate(m.Spinner.View()+" Processando...", width, "…"))
	}
	if m.err != nil {
		return m.styles.Error.Render(runewidth.Truncate(errorStatus(m.err), width, "…"))
	}

	parts := []string{m.aspect.Label(), variationLabel(m.variations)}
	if m.attachment != nil {
		parts = append(parts, "anexo: "+runewidth.Truncate(m.attachment.Name(), maxAttachmentLabel, "…"))
	}
	parts = append(parts, "Ctrl+O proporção · Ctrl+N variações · Ctrl+S salvar · /help")
	return m.styles.Muted.Render(runewidth.Truncate(strings.Join(parts, " · "), width, "…"))
}

func variationLabel(n int) string {
	if n == 1 {
		return "1 variação"
	}
	return fmt.Sprintf("%d variações", n)
}

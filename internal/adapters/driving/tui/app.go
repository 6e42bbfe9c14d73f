package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/views/busy"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/bucketdrop/internal/adapters/driving/tui/views/picker"
	"github.com/custodia-labs/bucketdrop/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the parent of every staging and upload context.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView    *menu.View
	pickerView  *picker.View
	busyView    *busy.View
	historyView *history.View
	statusBar   *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// returnView is shown once the busy view finishes.
	returnView messages.ViewType

	// cancel stops the running operation. Nil when idle.
	cancel context.CancelFunc

	// noticeSeen records whether the pipeline reported the running upload.
	noticeSeen bool

	// bucket is shown in the header.
	bucket string

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	app := &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		menuView:    menu.NewView(s),
		pickerView:  picker.NewView(s, ports.StartDir),
		busyView:    busy.NewView(s),
		historyView: history.NewView(s, ports.History),
		statusBar:   status.NewBar(s, km),
		currentView: messages.ViewMenu,
		returnView:  messages.ViewMenu,
	}
	app.syncSelection()
	return app, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("bucketdrop"),
		a.loadSettings(),
	)
}

func (a *App) loadSettings() tea.Cmd {
	if a.ports.Settings == nil {
		return nil
	}
	svc := a.ports.Settings
	return func() tea.Msg {
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case spinner.TickMsg:
		a.busyView, cmd = a.busyView.Update(msg)
		return a, cmd

	case messages.ActionSelected:
		return a, a.handleAction(msg.Action)

	case messages.ViewChanged:
		a.currentView = msg.View
		a.statusBar.SetState(status.StateReady)
		return a, nil

	case messages.PickCancelled:
		a.showMenu()
		return a, nil

	case messages.FileChosen:
		return a, a.startStage(msg)

	case messages.FileStaged:
		a.finishBusy()
		if msg.Err != nil {
			a.err = msg.Err
			a.statusBar.SetNotice(domain.Notice{Level: domain.NoticeError, Message: stageFailure(msg.Err)})
		} else {
			a.err = nil
			a.statusBar.ClearNotice()
		}
		a.syncSelection()
		return a, nil

	case messages.UploadFinished:
		a.finishBusy()
		a.err = msg.Err
		if !a.noticeSeen {
			a.statusBar.SetNotice(uploadNotice(msg.Record, msg.Err))
		}
		a.syncSelection()
		if a.currentView == messages.ViewHistory {
			return a, a.historyView.Load(a.ctx)
		}
		return a, nil

	case messages.NoticeShown:
		a.noticeSeen = true
		a.statusBar.SetNotice(msg.Notice)
		return a, nil

	case messages.SettingsLoaded:
		if msg.Err == nil && msg.Settings != nil {
			a.bucket = msg.Settings.Storage.Bucket
		}
		return a, nil

	case messages.HistoryLoaded:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.statusBar.SetNotice(domain.Notice{Level: domain.NoticeError, Message: msg.Err.Error()})
		return a, nil

	case messages.Quit:
		a.cancelRunning()
		return a, tea.Quit
	}

	// The picker lists directories through its own messages
	if a.currentView == messages.ViewPicker {
		a.pickerView, cmd = a.pickerView.Update(msg)
		return a, cmd
	}
	return a, nil
}

// handleKey routes a key press. Input is blocked while busy apart from
// ctrl+c, which cancels the running operation.
func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd

	if a.currentView == messages.ViewBusy {
		if keymap.Matches(msg.String(), a.keymap.Cancel) {
			a.cancelRunning()
		}
		return nil
	}

	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	switch a.currentView {
	case messages.ViewMenu:
		if keymap.Matches(msg.String(), a.keymap.Upload) {
			return a.startUpload()
		}
		a.menuView, cmd = a.menuView.Update(msg)
		return cmd

	case messages.ViewPicker:
		a.pickerView, cmd = a.pickerView.Update(msg)
		return cmd

	case messages.ViewHistory:
		if keymap.Matches(msg.String(), a.keymap.Upload) {
			return a.startUpload()
		}
		a.historyView, cmd = a.historyView.Update(msg)
		return cmd

	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || msg.String() == "q" {
			a.showMenu()
		}
		return nil
	}
	return nil
}

func (a *App) handleAction(action messages.Action) tea.Cmd {
	switch action {
	case messages.ActionCapture, messages.ActionPickImage, messages.ActionPickDocument:
		a.currentView = messages.ViewPicker
		a.statusBar.SetState(status.StatePicker)
		return a.pickerView.Open(action)
	case messages.ActionUpload:
		return a.startUpload()
	case messages.ActionHistory:
		a.currentView = messages.ViewHistory
		return a.historyView.Load(a.ctx)
	case messages.ActionHelp:
		a.currentView = messages.ViewHelp
		return nil
	case messages.ActionQuit:
		return tea.Quit
	}
	return nil
}

// startStage compresses or copies the chosen file in the background.
func (a *App) startStage(msg messages.FileChosen) tea.Cmd {
	label := busy.LabelCompressing
	if msg.Action == messages.ActionPickDocument {
		label = busy.LabelCopying
	}

	ctx := a.beginBusy(messages.ViewMenu)
	pipeline := a.ports.Pipeline
	cancel := a.cancel
	return tea.Batch(
		a.busyView.Start(label, msg.Path),
		func() tea.Msg {
			defer cancel()
			var f *domain.StagedFile
			var err error
			switch msg.Action {
			case messages.ActionCapture:
				f, err = pipeline.StageImage(ctx, msg.Path, domain.ImageSourceCamera)
			case messages.ActionPickImage:
				f, err = pipeline.StageImage(ctx, msg.Path, domain.ImageSourceGallery)
			default:
				f, err = pipeline.StageDocument(ctx, msg.Path)
			}
			return messages.FileStaged{File: f, Err: err}
		},
	)
}

// startUpload sends the selected file in the background.
func (a *App) startUpload() tea.Cmd {
	selected := a.ports.Pipeline.Selected()
	if selected == nil {
		a.statusBar.SetNotice(domain.Notice{Level: domain.NoticeInfo, Message: domain.ErrNoFileSelected.Error()})
		return nil
	}

	ctx := a.beginBusy(a.currentView)
	a.noticeSeen = false
	pipeline := a.ports.Pipeline
	cancel := a.cancel
	return tea.Batch(
		a.busyView.Start(busy.LabelUploading, selected.ObjectName()),
		func() tea.Msg {
			defer cancel()
			record, err := pipeline.Upload(ctx)
			return messages.UploadFinished{Record: record, Err: err}
		},
	)
}

// beginBusy switches to the busy view and returns the operation context.
func (a *App) beginBusy(returnTo messages.ViewType) context.Context {
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancel = cancel
	a.returnView = returnTo
	a.currentView = messages.ViewBusy
	a.statusBar.SetState(status.StateBusy)
	return ctx
}

func (a *App) finishBusy() {
	a.busyView.Stop()
	a.cancel = nil
	a.currentView = a.returnView
	a.statusBar.SetState(status.StateReady)
}

func (a *App) cancelRunning() {
	if a.cancel != nil {
		a.cancel()
	}
}

func (a *App) showMenu() {
	a.currentView = messages.ViewMenu
	a.statusBar.SetState(status.StateReady)
}

func (a *App) syncSelection() {
	if f := a.ports.Pipeline.Selected(); f != nil {
		a.statusBar.SetSelection(f.ObjectName())
		return
	}
	a.statusBar.SetSelection("")
}

// uploadNotice is used when the pipeline did not report the outcome itself.
func uploadNotice(record *domain.UploadRecord, err error) domain.Notice {
	switch {
	case record != nil:
		return record.Status.Notice()
	case errors.Is(err, domain.ErrNoFileSelected):
		return domain.Notice{Level: domain.NoticeInfo, Message: domain.ErrNoFileSelected.Error()}
	case errors.Is(err, context.Canceled):
		return domain.UploadStatusCancelled.Notice()
	default:
		return domain.UploadStatusFailed.Notice()
	}
}

func stageFailure(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnsupportedImage):
		return "Not a supported image"
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	default:
		return "Could not stage file: " + err.Error()
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewPicker:
		body = a.pickerView.View()
	case messages.ViewBusy:
		body = a.busyView.View()
	case messages.ViewHistory:
		body = a.historyView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}

	var b strings.Builder
	b.WriteString(a.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(a.statusBar.View())
	return b.String()
}

func (a *App) viewHeader() string {
	if a.bucket == "" {
		return a.styles.Warning.Render("No bucket configured: run bucketdrop settings bucket <name>")
	}
	return a.styles.Muted.Render("Bucket: gs://" + a.bucket)
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  u           Upload the selected file
  q           Quit

Picker:
  j/k, ↑/↓    Navigate files
  l, enter    Open directory
  h           Parent directory
  enter       Select file
  esc         Back to Menu

While uploading:
  ctrl+c      Cancel the upload

[esc] back to menu`
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// Notice returns the notice shown in the status bar, or nil.
func (a *App) Notice() *domain.Notice {
	return a.statusBar.Notice()
}

// Busy reports whether a staging or upload operation is running.
func (a *App) Busy() bool {
	return a.cancel != nil
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	// Header and status bar take four lines
	a.menuView.SetDimensions(width, height-4)
	a.pickerView.SetDimensions(width, height-4)
	a.historyView.SetDimensions(width, height-4)
	a.statusBar.SetWidth(width)
}

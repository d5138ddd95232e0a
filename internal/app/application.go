package app

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rorical/RoriQuery/internal/core"
	"github.com/Rorical/RoriQuery/internal/dispatcher"
	"github.com/Rorical/RoriQuery/internal/eventbus"
	"github.com/Rorical/RoriQuery/internal/nav"
)

// Application manages the complete application lifecycle
type Application struct {
	deps       *Deps
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ChatService
	model      *AppModel
}

// NewApplication wires the TUI. startPath is the first route requested;
// it is resolved against the session like any other navigation.
func NewApplication(verbose bool, startPath string) (*Application, error) {
	deps, err := NewDeps(verbose, nil)
	if err != nil {
		return nil, err
	}

	// Create event bus
	eb := eventbus.NewEventBus()
	eb.SetErrorCallback(func(e eventbus.EventBusError) {
		deps.Logger.Warn("event bus error", zap.String("operation", e.Operation), zap.Error(e.Err))
	})

	// Create dispatcher
	disp := dispatcher.NewEventDispatcher(eb)

	controller := core.NewController(deps.Client, deps.Store, deps.Logger.Named("chat"))
	chatService := core.NewChatService(controller, eb, deps.Logger.Named("service"))

	// A 401 anywhere sends the UI to the login screen through the bus.
	deps.Session.SetNavigator(chatService)
	deps.Session.OnChange(controller.Reset)

	if startPath == "" {
		startPath = string(nav.Dashboard)
	}

	return &Application{
		deps:       deps,
		eventBus:   eb,
		dispatcher: disp,
		service:    chatService,
		model:      NewAppModel(deps, disp, startPath),
	}, nil
}

func (app *Application) Start() error {
	app.service.Start()

	p := tea.NewProgram(app.model, tea.WithAltScreen())
	_, err := p.Run()

	return err
}

// Stop shuts down in dependency order: UI listener, core loop, then the bus.
func (app *Application) Stop() {
	app.dispatcher.Stop()
	app.service.Stop()
	app.eventBus.Close()
	app.deps.Close()
}

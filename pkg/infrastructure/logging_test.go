package infrastructure_test

import (
	"errors"
	"testing"

	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zaptest"

	"github.com/solstice-bots/vocalis/pkg/infrastructure"
)

func TestNewFxLoggerAdapter(t *testing.T) {
	logger := zaptest.NewLogger(t)

	adapter := infrastructure.NewFxLoggerAdapter(logger)

	var _ fxevent.Logger = adapter

	if adapter == nil {
		t.Fatal("NewFxLoggerAdapter returned nil")
	}
}

func TestFxLoggerAdapter_LogEvent(t *testing.T) {
	logger := zaptest.NewLogger(t)
	adapter := infrastructure.NewFxLoggerAdapter(logger)

	// Exercise each event type to ensure no panics.
	events := []fxevent.Event{
		&fxevent.OnStartExecuting{FunctionName: "testFunc", CallerName: "testCaller"},
		&fxevent.OnStartExecuted{FunctionName: "testFunc", CallerName: "testCaller"},
		&fxevent.OnStartExecuted{FunctionName: "testFunc", CallerName: "testCaller", Err: errors.New("boom")},
		&fxevent.OnStopExecuting{FunctionName: "testFunc", CallerName: "testCaller"},
		&fxevent.OnStopExecuted{FunctionName: "testFunc", CallerName: "testCaller"},
		&fxevent.Supplied{TypeName: "*config.Config"},
		&fxevent.Provided{OutputTypeNames: []string{"*zap.Logger"}},
		&fxevent.Invoking{FunctionName: "testFunc"},
		&fxevent.Invoked{FunctionName: "testFunc"},
		&fxevent.Invoked{FunctionName: "testFunc", Err: errors.New("boom")},
		&fxevent.Stopping{},
		&fxevent.Stopped{},
		&fxevent.RollingBack{StartErr: errors.New("boom")},
		&fxevent.RolledBack{},
		&fxevent.Started{},
		&fxevent.LoggerInitialized{ConstructorName: "NewZapLogger"},
	}

	for _, event := range events {
		adapter.LogEvent(event)
	}
}

package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	custom := &recordingHooks{}
	SetPipelineHooks(custom)
	SetCacheHooks(custom)
	if Pipeline() != custom || Cache() != custom {
		t.Error("Set*Hooks should register custom hooks")
	}

	// Nil is ignored.
	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	ctx := context.Background()

	h.OnLoadStart(ctx, "ibm01.aux")
	h.OnLoadComplete(ctx, "ibm01.aux", 12752, true, time.Millisecond, nil)
	h.OnConvertComplete(ctx, "ibm01", 40, time.Millisecond, nil)
	h.OnRenderComplete(ctx, []string{"lef"}, false, time.Millisecond, nil)
	h.OnCacheMiss(ctx, "design")
	h.OnCacheSet(ctx, "design", 2048)

	out := buf.String()
	for _, want := range []string{"load start", "objects=12752", "macros=40", "render complete", "cache miss", "bytes=2048"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q", want)
		}
	}
}

func TestLogHooksSilentAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnCacheHit(context.Background(), "artifact")
	if buf.Len() != 0 {
		t.Errorf("debug events should not log at info level: %q", buf.String())
	}
}

// recordingHooks overrides nothing; it only has a distinct identity.
type recordingHooks struct {
	NoopPipelineHooks
	NoopCacheHooks
}

package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	t.Run("Skips Disabled", func(t *testing.T) {
		on := &stubFeature{name: "borg", enabled: true}
		off := &stubFeature{name: "integrity", enabled: false}

		mgr := NewManager()
		mgr.Register(on)
		mgr.Register(off)

		assert.NoError(t, mgr.LoadAll(fiber.New()))
		assert.True(t, on.loaded)
		assert.False(t, off.loaded)
		assert.Len(t, mgr.Features(), 2)
	})

	t.Run("Stops On Error", func(t *testing.T) {
		bad := &stubFeature{name: "borg", enabled: true, err: errors.New("boom")}
		next := &stubFeature{name: "integrity", enabled: true}

		mgr := NewManager()
		mgr.Register(bad)
		mgr.Register(next)

		err := mgr.LoadAll(fiber.New())
		assert.ErrorContains(t, err, "failed to load feature borg")
		assert.False(t, next.loaded)
	})
}

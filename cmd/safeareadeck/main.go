// Command safeareadeck drives the safe area preview on a Stream Deck+.
// The touch strip shows the previewed screen, the dials nudge the insets,
// and the keys toggle smoothing, cycle bounds, and reset.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phinze/safearea/internal/config"
	"github.com/phinze/safearea/internal/coordinator"
	"github.com/phinze/safearea/internal/module"
	"github.com/phinze/safearea/internal/modules/safearea"
	"github.com/prashantgupta24/mac-sleep-notifier/notifier"
	"rafaelmartins.com/p/streamdeck"
)

const (
	pollInterval   = 2 * time.Second
	stopTimeout    = 2 * time.Second
	closeTimeout   = 3 * time.Second
	errSessionWake = sessionError("woke from sleep")
)

type sessionError string

func (e sessionError) Error() string { return string(e) }

func main() {
	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Safe area preview starting (insets %v)", cfg.Insets)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wake := watchWake()

	for ctx.Err() == nil {
		device := connect(ctx)
		if device == nil {
			break
		}
		s := &session{device: device, cfg: cfg}
		err := s.run(ctx, wake)
		switch {
		case ctx.Err() != nil:
			log.Println("Shutting down")
		case errors.Is(err, errSessionWake):
			log.Println("Reopening device after wake")
		case err != nil:
			log.Printf("Device lost: %v", err)
		}
		if !s.close(ctx) {
			// Close can hang on shutdown; don't wait for it.
			os.Exit(0)
		}
	}
}

// watchWake forwards system wake notifications. Sends never block; a
// pending wake is enough.
func watchWake() <-chan struct{} {
	wake := make(chan struct{}, 1)
	activity := notifier.GetInstance().Start()
	go func() {
		for a := range activity {
			if a.Type != notifier.Awake {
				continue
			}
			select {
			case wake <- struct{}{}:
			default:
			}
		}
	}()
	return wake
}

// connect opens the first available Stream Deck, polling until one shows
// up. It returns nil once ctx is done.
func connect(ctx context.Context) *streamdeck.Device {
	announced := false
	for {
		device, err := streamdeck.GetDevice("")
		if err == nil {
			if err = device.Open(); err == nil {
				log.Printf("Connected to %s", device.GetModelName())
				return device
			}
		}
		if !announced {
			log.Printf("Waiting for device: %v", err)
			announced = true
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(pollInterval):
		}
	}
}

// session is one connection to a device.
type session struct {
	device *streamdeck.Device
	cfg    config.Config
	coord  *coordinator.Coordinator
}

// resources hands the preview module every key, dial, and the strip.
func (s *session) resources() module.Resources {
	res := module.Resources{
		Keys:  module.AllKeys,
		Dials: []module.DialID{module.Dial1, module.Dial2, module.Dial3, module.Dial4},
	}
	if !s.device.GetTouchStripSupported() {
		log.Println("No touch strip; the preview is keys only")
		return res
	}
	rect, err := s.device.GetTouchStripImageRectangle()
	if err != nil {
		log.Printf("Failed to get touch strip size: %v", err)
		return res
	}
	res.StripRect = rect
	return res
}

// run drives the device until ctx is done, the device fails, or the
// system wakes.
func (s *session) run(ctx context.Context, wake <-chan struct{}) error {
	s.device.SetBrightness(byte(s.cfg.Deck.Brightness))
	s.device.ForEachKey(func(key streamdeck.KeyID) error {
		return s.device.ClearKey(key)
	})

	s.coord = coordinator.New(s.device, coordinator.WithFrameInterval(s.cfg.Deck.FrameInterval))
	if err := s.coord.RegisterModule(safearea.New(s.device, s.cfg), s.resources()); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- s.coord.Start(runCtx)
	}()
	log.Println("Ready: swipe the strip or turn the dials")

	var err error
	select {
	case <-ctx.Done():
	case err = <-done:
	case <-wake:
		err = errSessionWake
	}
	cancel()

	stopped := make(chan struct{})
	go func() {
		s.coord.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(stopTimeout):
		log.Println("Coordinator stop timed out")
	}
	return err
}

// close releases the device. It reports false when ctx is already done,
// in which case the caller should exit without waiting.
func (s *session) close(ctx context.Context) bool {
	closed := make(chan struct{})
	go func() {
		s.device.Close()
		close(closed)
	}()

	// Wait before reopening so a wake reconnect does not race the close.
	select {
	case <-ctx.Done():
		return false
	case <-closed:
	case <-time.After(closeTimeout):
		log.Println("Device close timed out")
	}
	return true
}

// Package runner drives a CHIP-8 machine without a display, pacing the
// instruction clock and the 60 Hz timers from elapsed time.
package runner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
)

// TimerFrequency is the rate of the delay and sound timers in Hz.
const TimerFrequency = 60

// tickInterval is the duration of one timer tick.
const tickInterval = time.Second / TimerFrequency

// ErrInvalidSpeed is returned for a clock speed that is not a positive
// multiple of the timer frequency.
var ErrInvalidSpeed = errors.New("clock speed must be a positive multiple of 60")

// Breakpoint is returned when the program counter reaches a breakpoint
// address. Running again continues with the instruction at that address.
type Breakpoint struct {
	Address uint16
}

// Error implements the error interface.
func (b *Breakpoint) Error() string {
	return fmt.Sprintf("breakpoint hit at address %04X", b.Address)
}

// Runner executes instructions of a machine at a fixed clock speed.
type Runner struct {
	machine    *chip8.Machine
	logger     *log.Logger
	clockSpeed int

	breakpoints set.Set[uint16]

	timerAccumulator time.Duration
	stepRemainder    float64

	steps uint64
	ticks uint64
}

// New returns a runner for the machine. The clock speed is the number of
// instructions executed per second. The logger must not be nil.
func New(machine *chip8.Machine, clockSpeed int, logger *log.Logger) (*Runner, error) {
	if err := ValidateSpeed(clockSpeed); err != nil {
		return nil, err
	}

	return &Runner{
		machine:     machine,
		logger:      logger,
		clockSpeed:  clockSpeed,
		breakpoints: set.New[uint16](),
	}, nil
}

// ValidateSpeed checks that the clock speed can be split evenly into
// timer frames.
func ValidateSpeed(clockSpeed int) error {
	if clockSpeed <= 0 || clockSpeed%TimerFrequency != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSpeed, clockSpeed)
	}
	return nil
}

// Machine returns the driven machine.
func (r *Runner) Machine() *chip8.Machine {
	return r.machine
}

// ClockSpeed returns the number of instructions executed per second.
func (r *Runner) ClockSpeed() int {
	return r.clockSpeed
}

// AddBreakpoint stops execution once the program counter reaches address.
func (r *Runner) AddBreakpoint(address uint16) {
	r.breakpoints.Add(address & 0xFFF)
}

// Steps returns the number of executed instructions.
func (r *Runner) Steps() uint64 {
	return r.steps
}

// Ticks returns the number of timer ticks.
func (r *Runner) Ticks() uint64 {
	return r.ticks
}

// Update advances the machine by the elapsed time dt. The timers are
// ticked once for every full 1/60 second, then the number of instructions
// matching the clock speed is executed. Fractions of an instruction are
// carried over to the next update.
func (r *Runner) Update(dt time.Duration) error {
	r.timerAccumulator += dt
	for r.timerAccumulator >= tickInterval {
		r.tick()
		r.timerAccumulator -= tickInterval
	}

	exact := float64(r.clockSpeed)*dt.Seconds() + r.stepRemainder
	count := math.Round(exact)
	r.stepRemainder = exact - count

	return r.run(int(count))
}

// RunFrames executes the given number of 60 Hz frames as fast as possible.
// onFrame is called after every frame that changed the screen, the draw
// flag is cleared afterwards. Context cancellation is checked between
// frames.
func (r *Runner) RunFrames(ctx context.Context, frames int, onFrame func(*chip8.Machine)) error {
	stepsPerFrame := r.clockSpeed / TimerFrequency

	for frame := range frames {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}

		r.tick()
		if err := r.run(stepsPerFrame); err != nil {
			return err
		}

		if r.machine.DrawFlag() {
			if onFrame != nil {
				onFrame(r.machine)
			}
			r.machine.ClearDrawFlag()
		}
	}

	r.logger.Debug("Frames executed",
		log.Int("frames", frames),
		log.Int("steps", int(r.steps)),
		log.Int("ticks", int(r.ticks)))
	return nil
}

func (r *Runner) tick() {
	r.machine.Tick()
	r.ticks++
}

// run executes count instructions and stops at the first fault or
// breakpoint.
func (r *Runner) run(count int) error {
	for range count {
		if err := r.machine.Step(); err != nil {
			r.logger.Debug("Execution stopped",
				log.Int("steps", int(r.steps)),
				log.Err(err))
			return fmt.Errorf("executing instruction %d: %w", r.steps+1, err)
		}
		r.steps++

		if pc := r.machine.PC(); r.breakpoints.Contains(pc) {
			r.logger.Debug("Breakpoint hit", log.Hex("pc", pc))
			return &Breakpoint{Address: pc}
		}
	}
	return nil
}

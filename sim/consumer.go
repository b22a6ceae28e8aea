package sim

import (
	"fmt"
	"math/rand"
)

// ServiceClass is the coarse QoS tier of a consumer.
type ServiceClass string

const (
	ClassHigh   ServiceClass = "High"
	ClassMedium ServiceClass = "Medium"
	ClassLow    ServiceClass = "Low"
)

// serviceClasses lists the classes in draw order. GenerateConsumers indexes
// into it, so reordering changes seeded populations.
var serviceClasses = []ServiceClass{ClassHigh, ClassMedium, ClassLow}

// ServiceClasses returns the recognized service classes, highest tier first.
func ServiceClasses() []ServiceClass {
	out := make([]ServiceClass, len(serviceClasses))
	copy(out, serviceClasses)
	return out
}

// IsValid reports whether c is one of High, Medium or Low.
func (c ServiceClass) IsValid() bool {
	switch c {
	case ClassHigh, ClassMedium, ClassLow:
		return true
	}
	return false
}

const (
	MinPriority = 1
	MaxPriority = 10
)

// Consumer is a user competing for bandwidth. Immutable after construction;
// fields are only reachable through accessors.
type Consumer struct {
	id             int
	class          ServiceClass
	requestedShare int
	priority       *int // nil when the population was generated without priorities
}

// NewConsumer validates and builds a Consumer. A nil priority means "absent";
// the pointed-to value is copied, so later writes through it have no effect.
func NewConsumer(id int, class ServiceClass, requestedShare int, priority *int) (Consumer, error) {
	if id < 1 {
		return Consumer{}, fmt.Errorf("consumer id must be >= 1, got %d: %w", id, ErrInvalidArgument)
	}
	if !class.IsValid() {
		return Consumer{}, fmt.Errorf("consumer %d: unknown service class %q: %w", id, class, ErrInvalidArgument)
	}
	if requestedShare < 1 {
		return Consumer{}, fmt.Errorf("consumer %d: requested share must be >= 1, got %d: %w", id, requestedShare, ErrInvalidArgument)
	}
	c := Consumer{id: id, class: class, requestedShare: requestedShare}
	if priority != nil {
		p := *priority
		if p < MinPriority || p > MaxPriority {
			return Consumer{}, fmt.Errorf("consumer %d: priority must be in [%d, %d], got %d: %w",
				id, MinPriority, MaxPriority, p, ErrInvalidArgument)
		}
		c.priority = &p
	}
	return c, nil
}

func (c Consumer) ID() int { return c.id }
func (c Consumer) Class() ServiceClass { return c.class }
func (c Consumer) RequestedShare() int { return c.requestedShare }
func (c Consumer) String() string { return fmt.Sprintf("consumer_%d", c.id) }

// Priority returns the consumer's priority and whether one was assigned.
func (c Consumer) Priority() (int, bool) {
	if c.priority == nil {
		return 0, false
	}
	return *c.priority, true
}

// GenerateConsumers produces count consumers with ids 1..count. Service class
// and requested share are drawn uniformly and independently per consumer, in
// that order, followed by the priority draw when includePriority is set.
func GenerateConsumers(count, maxShare int, includePriority bool, rng *rand.Rand) ([]Consumer, error) {
	if count <= 0 {
		return nil, fmt.Errorf("consumer count must be positive, got %d: %w", count, ErrInvalidArgument)
	}
	if maxShare <= 0 {
		return nil, fmt.Errorf("max share must be positive, got %d: %w", maxShare, ErrInvalidArgument)
	}
	if rng == nil {
		return nil, fmt.Errorf("nil random source: %w", ErrInvalidArgument)
	}

	consumers := make([]Consumer, 0, count)
	for id := 1; id <= count; id++ {
		c := Consumer{
			id:             id,
			class:          serviceClasses[rng.Intn(len(serviceClasses))],
			requestedShare: 1 + rng.Intn(maxShare),
		}
		if includePriority {
			p := MinPriority + rng.Intn(MaxPriority-MinPriority+1)
			c.priority = &p
		}
		consumers = append(consumers, c)
	}
	return consumers, nil
}

// ClassDistribution counts consumers per service class. All three classes
// are present in the returned map, zero-valued when unused.
func ClassDistribution(consumers []Consumer) map[ServiceClass]int {
	counts := make(map[ServiceClass]int, len(serviceClasses))
	for _, class := range serviceClasses {
		counts[class] = 0
	}
	for _, c := range consumers {
		counts[c.class]++
	}
	return counts
}

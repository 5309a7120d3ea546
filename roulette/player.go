package roulette

// Contestant is one of the two seats. Rules are identical for both.
type Contestant struct {
	Chair uint16
	Name  string
	Robot bool

	health    int
	maxHealth int
	items     []ItemKind
}

func (c *Contestant) ChairID() uint16 { return c.Chair }
func (c *Contestant) IsRobot() bool   { return c.Robot }

func (c *Contestant) Health() int    { return c.health }
func (c *Contestant) MaxHealth() int { return c.maxHealth }
func (c *Contestant) Alive() bool    { return c.health > 0 }

func (c *Contestant) Items() []ItemKind {
	return append([]ItemKind(nil), c.items...)
}

// ItemAt looks up a 1-based inventory slot.
func (c *Contestant) ItemAt(slot int) (ItemKind, bool) {
	if slot < 1 || slot > len(c.items) {
		return ItemNone, false
	}
	return c.items[slot-1], true
}

// heal returns the amount actually restored.
func (c *Contestant) heal(amount int) int {
	before := c.health
	c.health += amount
	if c.health > c.maxHealth {
		c.health = c.maxHealth
	}
	return c.health - before
}

func (c *Contestant) damage(amount int) {
	if amount <= 0 {
		return
	}
	c.health -= amount
	if c.health < 0 {
		c.health = 0
	}
}

// addItems appends in acquisition order and drops the oldest entries past
// capacity, returning what was dropped.
func (c *Contestant) addItems(capacity int, kinds ...ItemKind) []ItemKind {
	c.items = append(c.items, kinds...)
	if over := len(c.items) - capacity; over > 0 {
		dropped := append([]ItemKind(nil), c.items[:over]...)
		c.items = append([]ItemKind(nil), c.items[over:]...)
		return dropped
	}
	return nil
}

func (c *Contestant) removeItem(slot int) {
	if slot < 1 || slot > len(c.items) {
		return
	}
	c.items = append(c.items[:slot-1], c.items[slot:]...)
}

func otherChair(chair uint16) uint16 {
	if chair == 0 {
		return 1
	}
	return 0
}

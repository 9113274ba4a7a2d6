package world

// Cell represents a spatial partition cell containing obstacles
type Cell struct {
	// Obstacles overlapping this cell (preallocated slice)
	Obstacles []*Obstacle
}

// NewCell creates a new cell with preallocated obstacle storage
func NewCell(initialCapacity int) *Cell {
	return &Cell{
		Obstacles: make([]*Obstacle, 0, initialCapacity),
	}
}

// Add adds an obstacle to this cell
func (c *Cell) Add(o *Obstacle) {
	for _, existing := range c.Obstacles {
		if existing == o {
			return // Already in cell
		}
	}
	c.Obstacles = append(c.Obstacles, o)
}

// Remove removes an obstacle from this cell
func (c *Cell) Remove(o *Obstacle) {
	for i, existing := range c.Obstacles {
		if existing == o {
			// Swap with last element and shrink
			last := len(c.Obstacles) - 1
			c.Obstacles[i] = c.Obstacles[last]
			c.Obstacles[last] = nil
			c.Obstacles = c.Obstacles[:last]
			return
		}
	}
}

// Count returns the number of obstacles in the cell
func (c *Cell) Count() int {
	return len(c.Obstacles)
}

// Clear removes all obstacles from the cell (but keeps capacity)
func (c *Cell) Clear() {
	for i := range c.Obstacles {
		c.Obstacles[i] = nil
	}
	c.Obstacles = c.Obstacles[:0]
}

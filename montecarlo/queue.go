package montecarlo

import (
	conq "github.com/enriquebris/goconcurrentqueue"
)

// trial is one shot of a run, identified by its index.
type trial struct {
	index int
}

type fifo interface {
	Enqueue(*trial) error
	Dequeue() (*trial, error)
	GetLen() int
}

type conqFIFO struct {
	conq.FIFO
}

func newConqFIFO() *conqFIFO {
	return &conqFIFO{
		FIFO: *conq.NewFIFO(),
	}
}

func (c *conqFIFO) Enqueue(t *trial) error {
	return c.FIFO.Enqueue(t)
}

func (c *conqFIFO) Dequeue() (*trial, error) {
	tmp, err := c.FIFO.Dequeue()
	if err != nil {
		return nil, err
	}
	return tmp.(*trial), nil
}

func (c *conqFIFO) GetLen() int {
	return c.FIFO.GetLen()
}

package domain

import "fmt"

// TrainCatalog é o conjunto fixo de trens, montado uma vez na inicialização.
type TrainCatalog struct {
	trains   []*Train
	byNumber map[int]*Train
}

func NewTrainCatalog(trains ...*Train) (*TrainCatalog, error) {
	catalog := &TrainCatalog{
		trains:   make([]*Train, 0, len(trains)),
		byNumber: make(map[int]*Train, len(trains)),
	}
	for _, train := range trains {
		if _, dup := catalog.byNumber[train.Number()]; dup {
			return nil, fmt.Errorf("%w: duplicate train number %d", ErrInvalidRequest, train.Number())
		}
		catalog.trains = append(catalog.trains, train)
		catalog.byNumber[train.Number()] = train
	}
	return catalog, nil
}

// FindByRoute devolve, na ordem do catálogo, os trens de source a destination.
func (c *TrainCatalog) FindByRoute(source, destination string) []*Train {
	var matches []*Train
	for _, train := range c.trains {
		if train.Serves(source, destination) {
			matches = append(matches, train)
		}
	}
	return matches
}

func (c *TrainCatalog) FindByNumber(trainNo int) (*Train, error) {
	train, ok := c.byNumber[trainNo]
	if !ok {
		return nil, fmt.Errorf("train %d: %w", trainNo, ErrTrainNotFound)
	}
	return train, nil
}

// ListAll devolve todos os trens na ordem de inserção.
func (c *TrainCatalog) ListAll() []*Train {
	return append([]*Train(nil), c.trains...)
}

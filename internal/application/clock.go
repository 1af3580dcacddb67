package application

import "stockval/internal/domain"

type Clock interface {
	Today() domain.Date
}

type realClock struct{}

func (realClock) Today() domain.Date { return domain.Today() }

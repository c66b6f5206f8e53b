package menu

import (
	"fmt"

	"desim/internal/decoy"
	"desim/internal/toggle"
)

// Decoys is the part of the registry a DecoySwitch drives.
type Decoys interface {
	Start(id decoy.ID) error
	Stop(id decoy.ID) error
	IsActive(id decoy.ID) (bool, error)
}

// DecoySwitch adapts the registry to toggle.Switch.
type DecoySwitch struct {
	table  *Table
	decoys Decoys
}

func NewDecoySwitch(table *Table, decoys Decoys) *DecoySwitch {
	return &DecoySwitch{table: table, decoys: decoys}
}

func (s *DecoySwitch) resolve(cmd toggle.ID) (decoy.ID, error) {
	id, ok := s.table.Decoy(cmd)
	if !ok {
		return 0, fmt.Errorf("command %d: %w", cmd, toggle.ErrUnknownCommand)
	}
	return id, nil
}

func (s *DecoySwitch) Enable(cmd toggle.ID) error {
	id, err := s.resolve(cmd)
	if err != nil {
		return err
	}
	return s.decoys.Start(id)
}

func (s *DecoySwitch) Disable(cmd toggle.ID) error {
	id, err := s.resolve(cmd)
	if err != nil {
		return err
	}
	return s.decoys.Stop(id)
}

func (s *DecoySwitch) IsEnabled(cmd toggle.ID) bool {
	id, err := s.resolve(cmd)
	if err != nil {
		return false
	}
	active, err := s.decoys.IsActive(id)
	return err == nil && active
}

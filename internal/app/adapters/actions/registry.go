package actions

import (
	"buttonhandler/internal/app/ports"
	"fmt"
	"slices"
)

type Constructor func(d Deps) ports.ActionPort

type Registry struct {
	constructors map[Name]Constructor
}

// NewRegistry возвращает реестр со всеми действиями бота.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[Name]Constructor)}

	r.Register(Error, func(d Deps) ports.ActionPort { return &ErrorAction{base: newBase(d)} })
	r.Register(RejectAccess, func(d Deps) ports.ActionPort { return &RejectAccessAction{base: newBase(d)} })
	r.Register(NotMessageOwner, func(d Deps) ports.ActionPort { return &RejectAccessAction{base: newBase(d)} })
	r.Register(CloseMenu, func(d Deps) ports.ActionPort { return &CloseMenuAction{base: newBase(d)} })
	r.Register(CancelCommand, func(d Deps) ports.ActionPort { return &CancelCommandAction{base: newBase(d)} })

	r.Register(SetMark, func(d Deps) ports.ActionPort { return &SetMarkAction{base: newBase(d)} })
	r.Register(UpdatePeerData, func(d Deps) ports.ActionPort { return &UpdatePeerDataAction{base: newBase(d)} })
	r.Register(DropMark, func(d Deps) ports.ActionPort { return &DropMarkAction{base: newBase(d)} })

	r.Register(SetPermission, func(d Deps) ports.ActionPort { return &SetPermissionAction{base: newBase(d)} })
	r.Register(DropPermission, func(d Deps) ports.ActionPort { return &DropPermissionAction{base: newBase(d)} })

	r.Register(GameRoll, func(d Deps) ports.ActionPort { return &GameRollAction{base: newBase(d)} })
	r.Register(GameCoinflip, func(d Deps) ports.ActionPort { return &GameCoinflipAction{base: newBase(d)} })

	r.Register(SystemsSettings, newSystemsSettings)
	r.Register(FiltersSettings, newFiltersSettings)
	r.Register(ChangeDelay, newChangeDelay)
	r.Register(ChangePunishment, newChangePunishment)
	r.Register(SystemsPunishment, newSystemsPunishment)
	r.Register(FiltersPunishment, newFiltersPunishment)

	return r
}

func (r *Registry) Register(name Name, c Constructor) {
	r.constructors[name] = c
}

func (r *Registry) Lookup(name string) (Constructor, error) {
	c, ok := r.constructors[Name(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	return c, nil
}

func (r *Registry) Names() []Name {
	names := make([]Name, 0, len(r.constructors))
	for n := range r.constructors {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

package services

import (
	"context"
	"strings"
	"time"

	"crm/internal/domain"
	"crm/internal/repos"
	"crm/internal/validate"

	"github.com/google/uuid"
)

type ClientInput struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Branch  string `json:"branch"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	TanksP  string `json:"tanksP"`
	VolumeP string `json:"volumeP"`
	TanksT  string `json:"tanksT"`
	VolumeT string `json:"volumeT"`
}

type ClientService struct {
	Clients *repos.ClientRepo
	Timeout time.Duration
}

func (in ClientInput) apply(c *domain.Client) error {
	var ok bool
	if c.Name, ok = validate.Name(in.Name); !ok {
		return domain.Invalid("name is required (max 60 characters)")
	}
	if c.Surname, ok = validate.Name(in.Surname); !ok {
		return domain.Invalid("surname is required (max 60 characters)")
	}
	if c.Branch, ok = validate.Name(in.Branch); !ok {
		return domain.Invalid("branch is required (max 60 characters)")
	}
	email, ok := validate.Email(in.Email)
	if !ok {
		return domain.Invalid("enter a valid email")
	}
	c.Email = strings.ToLower(email)
	if c.Phone, ok = validate.Phone(in.Phone); !ok {
		return domain.Invalid("invalid phone number")
	}
	for _, f := range []struct {
		dst *string
		src string
	}{{&c.TanksP, in.TanksP}, {&c.VolumeP, in.VolumeP}, {&c.TanksT, in.TanksT}, {&c.VolumeT, in.VolumeT}} {
		if *f.dst, ok = validate.Optional(f.src, 60); !ok {
			return domain.Invalid("field too long (max 60 characters)")
		}
	}
	return nil
}

func (s *ClientService) List(ctx context.Context) ([]domain.Client, error) {
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	out, err := s.Clients.List(ctx)
	return out, fault("client.list", err, nil)
}

// ListMine filters by owner in the query; nothing is checked per record.
func (s *ClientService) ListMine(ctx context.Context, actor domain.Identity) ([]domain.Client, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	out, err := s.Clients.ListByOwner(ctx, actor.ID)
	return out, fault("client.list_mine", err, map[string]any{"user_id": actor.ID})
}

func (s *ClientService) Get(ctx context.Context, id string, actor domain.Identity) (*domain.Client, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	return s.owned(ctx, id, actor)
}

func (s *ClientService) owned(ctx context.Context, id string, actor domain.Identity) (*domain.Client, error) {
	c, err := s.Clients.Get(ctx, id)
	if err != nil {
		return nil, fault("client.get", err, map[string]any{"client_id": id})
	}
	if err := AuthorizeOwner(c, actor); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ClientService) Create(ctx context.Context, in ClientInput, actor domain.Identity) (*domain.Client, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	c := &domain.Client{ID: uuid.NewString(), Owner: actor.ID}
	if err := in.apply(c); err != nil {
		return nil, err
	}
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()
	if err := s.Clients.Create(ctx, c); err != nil {
		return nil, fault("client.create", err, nil)
	}
	return c, nil
}

func (s *ClientService) Update(ctx context.Context, id string, in ClientInput, actor domain.Identity) (*domain.Client, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	c, err := s.owned(ctx, id, actor)
	if err != nil {
		return nil, err
	}
	if err := in.apply(c); err != nil {
		return nil, err
	}
	if err := s.Clients.Update(ctx, c); err != nil {
		return nil, fault("client.update", err, map[string]any{"client_id": id})
	}
	return c, nil
}

func (s *ClientService) Delete(ctx context.Context, id string, actor domain.Identity) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	ctx, cancel := bounded(ctx, s.Timeout)
	defer cancel()

	if _, err := s.owned(ctx, id, actor); err != nil {
		return err
	}
	return fault("client.delete", s.Clients.Delete(ctx, id), map[string]any{"client_id": id})
}

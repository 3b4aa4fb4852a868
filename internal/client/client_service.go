package client

import (
	"context"
)

//go:generate mockgen -source=client_service.go -destination=mock/client_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (ClientResponse, error)
	GetAll(ctx context.Context) ([]ClientResponse, error)
	GetActive(ctx context.Context) ([]ClientResponse, error)
	GetByID(ctx context.Context, id string) (ClientResponse, error)
	Update(ctx context.Context, id string, req UpdateClientRequest) (ClientResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateClientRequest) (ClientResponse, error) {
	c := &Client{
		CompanyName:    req.CompanyName,
		Phone:          req.Phone,
		CommissionRate: req.CommissionRate,
		IsActive:       true,
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return ClientResponse{}, err
	}

	return mapToResponse(*c), nil
}

func (s *service) GetAll(ctx context.Context) ([]ClientResponse, error) {
	clients, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(clients), nil
}

func (s *service) GetActive(ctx context.Context) ([]ClientResponse, error) {
	clients, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(clients), nil
}

func (s *service) GetByID(ctx context.Context, id string) (ClientResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ClientResponse{}, err
	}
	return mapToResponse(*c), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateClientRequest) (ClientResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ClientResponse{}, err
	}

	c.CompanyName = req.CompanyName
	c.Phone = req.Phone
	c.CommissionRate = req.CommissionRate
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return ClientResponse{}, err
	}

	return mapToResponse(*c), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func mapToResponse(c Client) ClientResponse {
	return ClientResponse{
		ID:             c.ID.String(),
		CompanyName:    c.CompanyName,
		Phone:          c.Phone,
		CommissionRate: c.CommissionRate,
		IsActive:       c.IsActive,
	}
}

func mapToListResponse(clients []Client) []ClientResponse {
	resp := make([]ClientResponse, len(clients))
	for i, c := range clients {
		resp[i] = mapToResponse(c)
	}
	return resp
}

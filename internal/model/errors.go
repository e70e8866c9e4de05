package model

import "errors"

var (
	// ErrNotFound indica recurso não encontrado no Jira
	ErrNotFound = errors.New("recurso não encontrado no Jira")

	// ErrUnauthorized indica credenciais do Jira inválidas
	ErrUnauthorized = errors.New("credenciais do Jira inválidas ou expiradas")

	// ErrRateLimited indica que a API do Jira retornou 429
	ErrRateLimited = errors.New("rate limit excedido na API do Jira")

	// ErrTimeout indica timeout na requisição
	ErrTimeout = errors.New("timeout na requisição para o Jira")

	// ErrInvalidResponse indica resposta inválida da API
	ErrInvalidResponse = errors.New("resposta inválida da API do Jira")
)

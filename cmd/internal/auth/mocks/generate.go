package mocks

//go:generate mockgen -destination=account_store.go -package=mocks -mock_names=Store=MockAccountStore vrme/cmd/identity Store
//go:generate mockgen -destination=session_store.go -package=mocks -mock_names=Store=MockSessionStore vrme/cmd/internal/auth/session Store

// internal/repository/mock_gen.go
package repository

//go:generate mockgen -typed -source=./user.go -destination=../mocks/mock_user_repository.go -package=mocks UserRepositoryIface
//go:generate mockgen -typed -source=./organization.go -destination=../mocks/mock_organization_repository.go -package=mocks OrganizationRepositoryIface
//go:generate mockgen -typed -source=./repository.go -destination=../mocks/mock_transactor.go -package=mocks Transactor

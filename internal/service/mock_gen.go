package service

//go:generate mockgen -typed -source=./ai.go -destination=../mocks/mock_ai_client.go -package=mocks AIClient

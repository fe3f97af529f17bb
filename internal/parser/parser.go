package parser

import "dct/internal/domain"

// Parser reads persisted stage logs back into execution results
type Parser interface {
	ParseLog(content string) (*domain.ExecutionResult, error)
	ParseLogFile(path string) (*domain.ExecutionResult, error)
}

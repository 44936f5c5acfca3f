package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// DefaultChatHistoryLimit caps how many exchanges ChatHistory returns.
const DefaultChatHistoryLimit = 50

// SaveChat stores one assistant exchange for an employee
func (db *DB) SaveChat(ctx context.Context, employeeID uuid.UUID, question, answer string) (*ChatMessage, error) {
	m := ChatMessage{EmployeeID: employeeID, Question: question, Answer: answer}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO chat (employee_id, question, answer)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		employeeID, question, answer,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save chat: %w", err)
	}
	return &m, nil
}

// ChatHistory returns an employee's most recent exchanges, oldest first
func (db *DB) ChatHistory(ctx context.Context, employeeID uuid.UUID, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultChatHistoryLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, employee_id, question, answer, created_at FROM (
		   SELECT id, employee_id, question, answer, created_at
		   FROM chat WHERE employee_id = $1
		   ORDER BY created_at DESC LIMIT $2
		 ) recent ORDER BY created_at ASC`,
		employeeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer rows.Close()

	history := []ChatMessage{}
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.EmployeeID, &m.Question, &m.Answer, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}
		history = append(history, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	return history, nil
}

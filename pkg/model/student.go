package model

import "strings"

// Student は学生レコードを表す。
// IDはサーバー側で採番される。
type Student struct {
	ID    int64  `json:"id"`
	Nome  string `json:"nome"`
	Email string `json:"email"`
	Serie string `json:"serie"`
}

// CreateStudentRequest は POST /v1/alunos のリクエストボディ。
type CreateStudentRequest struct {
	Nome  string `json:"nome" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Serie string `json:"serie" validate:"required"`
}

// NewCreateStudentRequest は前後の空白を除去したリクエストを生成する。
func NewCreateStudentRequest(nome, email, serie string) CreateStudentRequest {
	return CreateStudentRequest{
		Nome:  strings.TrimSpace(nome),
		Email: strings.TrimSpace(email),
		Serie: strings.TrimSpace(serie),
	}
}

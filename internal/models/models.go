package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Trait{},
		&Entity{},
		&TraitReview{},
		&Question{},
		&Answer{},
		&AnswerVote{},
		&AuditLog{},
	}
}

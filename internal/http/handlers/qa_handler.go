package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"review_app/internal/apierr"
	"review_app/internal/models"
)

type answerView struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"-"`
	User       string    `json:"user"`
	AnswerText string    `json:"answerText"`
	Date       time.Time `json:"date"`
	Upvotes    int       `json:"upvotes"`
	Downvotes  int       `json:"downvotes"`
}

type questionView struct {
	ID           int64        `json:"id"`
	User         string       `json:"user"`
	QuestionText string       `json:"questionText"`
	Date         time.Time    `json:"date"`
	Answers      []answerView `json:"answers" gorm:"-"`
}

// ListQuestions pages through the questions of an approved entity, newest
// first, each with its answers ordered by upvotes.
func ListQuestions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctxDB := db.WithContext(c.Request.Context())
		entity, err := entityInCategory(ctxDB, c.Param("category"), c.Param("entityId"), true)
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		page := queryInt(c, "page", 1, 0)
		limit := queryInt(c, "limit", 10, 100)

		questions := []questionView{}
		err = ctxDB.Table("questions AS q").
			Select("q.id, COALESCE(u.username, '') AS user, q.text AS question_text, q.created_at AS date").
			Joins("LEFT JOIN users u ON u.id = q.user_id").
			Where("q.entity_id = ?", entity.ID).
			Order("q.created_at DESC, q.id DESC").
			Limit(limit).Offset((page - 1) * limit).
			Scan(&questions).Error
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		if len(questions) == 0 {
			c.JSON(http.StatusOK, questions)
			return
		}

		ids := make([]int64, len(questions))
		for i, q := range questions {
			ids[i] = q.ID
		}
		var answers []answerView
		err = ctxDB.Table("answers AS a").
			Select(`a.id, a.question_id, COALESCE(u.username, '') AS user, a.text AS answer_text,
				a.created_at AS date, a.upvotes, a.downvotes`).
			Joins("LEFT JOIN users u ON u.id = a.user_id").
			Where("a.question_id IN ?", ids).
			Order("a.upvotes DESC, a.created_at ASC, a.id ASC").
			Scan(&answers).Error
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		byQuestion := map[int64][]answerView{}
		for _, a := range answers {
			byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
		}
		for i := range questions {
			questions[i].Answers = byQuestion[questions[i].ID]
			if questions[i].Answers == nil {
				questions[i].Answers = []answerView{}
			}
		}
		c.JSON(http.StatusOK, questions)
	}
}

func AddQuestion(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := mustPrincipal(c)
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		ctxDB := db.WithContext(c.Request.Context())
		entity, err := entityInCategory(ctxDB, c.Param("category"), c.Param("entityId"), true)
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		var input struct {
			QuestionText string `json:"question_text" form:"question_text"`
		}
		_ = c.ShouldBind(&input)
		text := strings.TrimSpace(input.QuestionText)
		if text == "" {
			apierr.Abort(c, apierr.BadRequest("Missing required fields"))
			return
		}

		q := models.Question{EntityID: entity.ID, UserID: p.ID, Text: text}
		if err := ctxDB.Create(&q).Error; err != nil {
			apierr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Question added successfully", "id": q.ID})
	}
}

func AddAnswer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := mustPrincipal(c)
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		questionID, err := pathID(c, "questionId", "question")
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		var input struct {
			AnswerText string `json:"answer_text" form:"answer_text"`
		}
		_ = c.ShouldBind(&input)
		text := strings.TrimSpace(input.AnswerText)
		if text == "" {
			apierr.Abort(c, apierr.BadRequest("Missing required fields"))
			return
		}

		ctxDB := db.WithContext(c.Request.Context())
		if err := ctxDB.Select("id").First(&models.Question{}, questionID).Error; err != nil {
			apierr.Abort(c, notFoundOr(err, "Question not found"))
			return
		}

		a := models.Answer{QuestionID: questionID, UserID: p.ID, Text: text}
		if err := ctxDB.Create(&a).Error; err != nil {
			apierr.Abort(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Answer added successfully", "id": a.ID})
	}
}

// VoteAnswer records one up or down vote per user per answer. A repeat vote
// is not an error: it reports success=false.
func VoteAnswer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := mustPrincipal(c)
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		answerID, err := pathID(c, "answerId", "answer")
		if err != nil {
			apierr.Abort(c, err)
			return
		}

		var input struct {
			VoteType string `json:"vote_type" form:"vote_type"`
		}
		_ = c.ShouldBind(&input)
		column := map[string]string{"upvote": "upvotes", "downvote": "downvotes"}[input.VoteType]
		if column == "" {
			apierr.Abort(c, apierr.BadRequest("Invalid vote type"))
			return
		}

		alreadyVoted := false
		err = db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
			if err := tx.Select("id").First(&models.Answer{}, answerID).Error; err != nil {
				return notFoundOr(err, "Answer not found")
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.AnswerVote{
				AnswerID: answerID,
				UserID:   p.ID,
				VoteType: input.VoteType,
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				alreadyVoted = true
				return nil
			}
			return tx.Model(&models.Answer{}).Where("id = ?", answerID).
				UpdateColumn(column, gorm.Expr(column+" + 1")).Error
		})
		if err != nil {
			apierr.Abort(c, err)
			return
		}
		if alreadyVoted {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "You have already voted for this answer"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Vote added successfully"})
	}
}

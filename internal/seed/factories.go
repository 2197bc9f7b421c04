package seed

import (
	"fmt"
	"math/rand"
	"time"

	"eduforums/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var standings = []string{"Freshman", "Sophomore", "Junior", "Senior", "Graduate"}

var majors = []string{
	"Computer Science", "Mechanical Engineering", "Biology", "Economics",
	"Psychology", "English", "Mathematics", "Nursing", "History", "Physics",
}

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateAccount constructs and persists a sample account under the role.
// Bcrypt is the slow part of seeding, so SkipBcrypt stores a fixed marker
// hash instead when only row volume matters.
func (f *Factory) CreateAccount(role models.Role, overrides ...func(*models.Account)) (*models.Account, error) {
	password := f.opts.DefaultPassword
	if password == "" {
		password = "password123"
	}

	hash := "seeded-no-login"
	if !f.opts.SkipBcrypt {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		hash = string(hashed)
	}

	account := &models.Account{
		Name:         fmt.Sprintf("%s %s %d", gofakeit.FirstName(), gofakeit.LastName(), gofakeit.Number(10, 99)),
		PasswordHash: hash,
		Role:         role,
	}
	for _, override := range overrides {
		override(account)
	}

	if err := f.db.Create(account).Error; err != nil {
		return nil, err
	}
	return account, nil
}

// CreateFeedback constructs and persists a feedback post authored by the
// given student, with a realistic created_at spread over the last 90 days.
func (f *Factory) CreateFeedback(community *models.Community, author *models.Account, overrides ...func(*models.Feedback)) (*models.Feedback, error) {
	feedback := &models.Feedback{
		CommunityID: community.ID,
		StudentName: author.Name,
		Standing:    standings[f.rng.Intn(len(standings))],
		Major:       majors[f.rng.Intn(len(majors))],
		Title:       gofakeit.Sentence(5),
		Description: gofakeit.Paragraph(1, 3, 8, "\n"),
		Upvoters:    []string{},
		Downvoters:  []string{},
	}

	daysBack := f.rng.Intn(90)
	hoursBack := f.rng.Intn(24)
	feedback.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(feedback)
	}

	if err := f.db.Create(feedback).Error; err != nil {
		return nil, err
	}
	return feedback, nil
}

// CreateComment constructs and persists a comment on the given post.
func (f *Factory) CreateComment(feedback *models.Feedback, commenterName string) (*models.Comment, error) {
	comment := &models.Comment{
		FeedbackID:    feedback.ID,
		CommenterName: commenterName,
		CommentText:   gofakeit.Sentence(f.rng.Intn(12) + 4),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CastVote records a random up or down vote, keeping the post's counters
// consistent with the vote rows. Skews towards upvotes like real forums do.
func (f *Factory) CastVote(feedback *models.Feedback, voterName string) error {
	voteType := models.VoteUp
	column := "upvotes"
	if f.rng.Intn(4) == 0 {
		voteType = models.VoteDown
		column = "downvotes"
	}

	return f.db.Transaction(func(tx *gorm.DB) error {
		vote := &models.Vote{
			FeedbackID: feedback.ID,
			VoterName:  voterName,
			Type:       voteType,
		}
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		return tx.Model(&models.Feedback{}).
			Where("id = ?", feedback.ID).
			UpdateColumn(column, gorm.Expr(column+" + 1")).Error
	})
}

// CreateCommunity constructs and persists a community beyond the built-ins.
func (f *Factory) CreateCommunity(overrides ...func(*models.Community)) (*models.Community, error) {
	community := &models.Community{
		Name:        gofakeit.BuzzWord() + " " + gofakeit.NounAbstract(),
		Description: gofakeit.Sentence(10),
	}
	for _, override := range overrides {
		override(community)
	}
	if err := f.db.Create(community).Error; err != nil {
		return nil, err
	}
	return community, nil
}

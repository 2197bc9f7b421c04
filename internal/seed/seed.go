// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"errors"
	"fmt"
	"log"

	"eduforums/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumStudents       int
	NumAdmins         int
	PostsPerCommunity int
	CommentsPerPost   int
	VotersPerPost     int
	ShouldClean       bool
	SkipBcrypt        bool
	DefaultPassword   string
}

// BuiltInCommunity is a permanent starter community.
type BuiltInCommunity struct {
	Name        string
	Description string
}

// BuiltInCommunities defines the starter catalog seeded on fresh installs.
var BuiltInCommunities = []BuiltInCommunity{
	{Name: "Course Feedback", Description: "Feedback on courses, syllabi, and grading."},
	{Name: "Campus Facilities", Description: "Libraries, labs, housing, and dining."},
	{Name: "Advising", Description: "Academic advising and degree planning."},
	{Name: "Student Life", Description: "Clubs, events, and campus culture."},
	{Name: "Career Services", Description: "Internships, job fairs, and resume help."},
	{Name: "Technology", Description: "Wifi, portals, and classroom tech."},
}

// Communities seeds the permanent built-in communities. Safe to run twice:
// an existing community with the same name is refreshed, not duplicated.
func Communities(db *gorm.DB) error {
	for _, item := range BuiltInCommunities {
		err := db.Transaction(func(tx *gorm.DB) error {
			var existing models.Community
			queryErr := tx.Where("name = ?", item.Name).First(&existing).Error
			switch {
			case queryErr == nil:
				if existing.Description != item.Description {
					return tx.Model(&models.Community{}).
						Where("id = ?", existing.ID).
						Update("description", item.Description).Error
				}
				return nil
			case !errors.Is(queryErr, gorm.ErrRecordNotFound):
				return queryErr
			}

			return tx.Create(&models.Community{
				Name:        item.Name,
				Description: item.Description,
			}).Error
		})
		if err != nil {
			return fmt.Errorf("seed built-in community %s: %w", item.Name, err)
		}
	}
	return nil
}

// Seed populates the database with demo accounts, posts, comments, and votes.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding database: %d students, %d admins, %d posts per community...",
		opts.NumStudents, opts.NumAdmins, opts.PostsPerCommunity)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	if err := Communities(db); err != nil {
		return err
	}

	f := NewFactory(db, opts)

	students := make([]*models.Account, 0, opts.NumStudents)
	for i := 0; i < opts.NumStudents; i++ {
		student, err := f.CreateAccount(models.RoleStudent)
		if err != nil {
			return fmt.Errorf("seed student: %w", err)
		}
		students = append(students, student)
	}
	for i := 0; i < opts.NumAdmins; i++ {
		if _, err := f.CreateAccount(models.RoleAdmin); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}
	if len(students) == 0 {
		log.Println("No students seeded; skipping posts")
		return nil
	}

	var communities []*models.Community
	if err := db.Find(&communities).Error; err != nil {
		return fmt.Errorf("load communities: %w", err)
	}

	for _, community := range communities {
		for i := 0; i < opts.PostsPerCommunity; i++ {
			author := students[(i+int(community.ID))%len(students)]
			feedback, err := f.CreateFeedback(community, author)
			if err != nil {
				return fmt.Errorf("seed feedback: %w", err)
			}

			for j := 0; j < opts.CommentsPerPost; j++ {
				commenter := students[(i+j+1)%len(students)]
				if _, err := f.CreateComment(feedback, commenter.Name); err != nil {
					return fmt.Errorf("seed comment: %w", err)
				}
			}

			for j := 0; j < opts.VotersPerPost && j < len(students); j++ {
				voter := students[(i+j)%len(students)]
				if err := f.CastVote(feedback, voter.Name); err != nil {
					return fmt.Errorf("seed vote: %w", err)
				}
			}
		}
	}

	log.Println("Seeding complete")
	return nil
}

// clearData removes all seedable rows. Order matters for FK-less cleanup only
// in that it keeps counts coherent if interrupted.
func clearData(db *gorm.DB) error {
	for _, model := range []any{
		&models.Comment{},
		&models.Vote{},
		&models.Feedback{},
		&models.Community{},
		&models.Account{},
	} {
		if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

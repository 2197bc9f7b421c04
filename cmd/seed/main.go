// Command main runs the database seeder for Eduforums.
package main

import (
	"flag"
	"log"

	"eduforums/internal/config"
	"eduforums/internal/database"
	"eduforums/internal/seed"
)

func main() {
	// Parse command line flags
	numStudents := flag.Int("students", 30, "Number of student accounts to create")
	numAdmins := flag.Int("admins", 3, "Number of admin accounts to create")
	postsPerCommunity := flag.Int("posts", 8, "Feedback posts per community")
	commentsPerPost := flag.Int("comments", 3, "Comments per feedback post")
	votersPerPost := flag.Int("voters", 5, "Voters per feedback post")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d students, %d admins, %d posts per community, clean=%v\n",
		*numStudents, *numAdmins, *postsPerCommunity, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = seed.Seed(db, seed.Options{
		NumStudents:       *numStudents,
		NumAdmins:         *numAdmins,
		PostsPerCommunity: *postsPerCommunity,
		CommentsPerPost:   *commentsPerPost,
		VotersPerPost:     *votersPerPost,
		ShouldClean:       *shouldClean,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All seeded accounts have the password: password123")
}

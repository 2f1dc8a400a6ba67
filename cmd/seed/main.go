// Package main provides a tool to seed the database with demo data.
//
// It creates demo users with tags, collections, tasks, and notes so the
// API and search features can be exercised against realistic content.
//
// Usage:
//
//	DATA_PATH=~/taskdeck go run ./cmd/seed
//	DATA_PATH=~/taskdeck go run ./cmd/seed --users 3
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/taskdeckapp/taskdeck-server/internal/auth"
	"github.com/taskdeckapp/taskdeck-server/internal/domain"
	"github.com/taskdeckapp/taskdeck-server/internal/id"
	"github.com/taskdeckapp/taskdeck-server/internal/store/sqlite"
)

var userCount = flag.Int("users", 2, "Number of demo users to create")

// seedPassword is the login password for every generated demo user.
const seedPassword = "demopass123"

var demoNames = []string{
	"Alex Rivera",
	"Jordan Chen",
	"Sam Taylor",
	"Casey Morgan",
	"Riley Kim",
}

var demoTags = []struct {
	title string
	color string
}{
	{"urgent", "#e74c3c"},
	{"home", "#2ecc71"},
	{"work", "#3498db"},
	{"errand", "#f39c12"},
	{"someday", "#9b59b6"},
}

var demoTaskTitles = []string{
	"Book dentist appointment",
	"Review quarterly report",
	"Fix leaking kitchen tap",
	"Renew passport",
	"Prepare slides for standup",
	"Buy birthday present",
	"Clean out garage",
	"Update project roadmap",
}

var demoNoteTitles = []string{
	"Meeting notes",
	"Gift ideas",
	"Reading list",
	"Trip packing checklist",
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/taskdeck")
	}
	dbPath := filepath.Join(dataPath, "taskdeck.db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	st, err := sqlite.Open(dbPath, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	passwordHash, err := auth.HashPassword(seedPassword)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	n := min(*userCount, len(demoNames))
	for i := 0; i < n; i++ {
		email := fmt.Sprintf("demo%d@example.com", i+1)

		if existing, _ := st.GetUserByEmail(ctx, email); existing != nil {
			fmt.Printf("User %s already exists, skipping\n", email)
			continue
		}

		now := time.Now()
		user := &domain.User{
			ID:           id.MustGenerate("user"),
			Email:        email,
			PasswordHash: passwordHash,
			DisplayName:  demoNames[i],
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := st.CreateUser(ctx, user); err != nil {
			log.Printf("Failed to create user %s: %v", email, err)
			continue
		}
		fmt.Printf("Created user: %s (%s / %s)\n", user.DisplayName, email, seedPassword)

		seedUserData(ctx, st, rng, user)
	}

	fmt.Println("Seeding complete!")
}

// seedUserData creates tags, collections, tasks, and notes for one user.
func seedUserData(ctx context.Context, st *sqlite.Store, rng *rand.Rand, user *domain.User) {
	now := time.Now()

	var tagIDs []string
	for _, t := range demoTags {
		tag := &domain.Tag{
			ID:        id.MustGenerate("tag"),
			UserID:    user.ID,
			Title:     t.title,
			Color:     t.color,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := st.CreateTag(ctx, tag); err != nil {
			log.Printf("  Failed to create tag %s: %v", t.title, err)
			continue
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	fmt.Printf("  Created %d tags\n", len(tagIDs))

	collections := []*domain.Collection{
		{
			ID:        id.MustGenerate("coll"),
			UserID:    user.ID,
			Title:     "Inbox",
			Type:      domain.CollectionTypeGeneral,
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:          id.MustGenerate("coll"),
			UserID:      user.ID,
			Title:       "Home Renovation",
			Description: "Everything for the spring renovation push",
			Type:        domain.CollectionTypeProject,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
	for _, c := range collections {
		if err := st.CreateCollection(ctx, c); err != nil {
			log.Printf("  Failed to create collection %s: %v", c.Title, err)
		}
	}
	fmt.Printf("  Created %d collections\n", len(collections))

	statuses := []domain.TaskStatus{domain.TaskStatusTodo, domain.TaskStatusInProgress, domain.TaskStatusDone}
	priorities := []domain.TaskPriority{domain.TaskPriorityLow, domain.TaskPriorityMedium, domain.TaskPriorityHigh}

	tasksCreated := 0
	for _, title := range demoTaskTitles {
		task := &domain.Task{
			ID:        id.MustGenerate("task"),
			UserID:    user.ID,
			Title:     title,
			Status:    statuses[rng.Intn(len(statuses))],
			Priority:  priorities[rng.Intn(len(priorities))],
			TagIDs:    pickTags(rng, tagIDs),
			CreatedAt: now,
			UpdatedAt: now,
		}

		// Half the tasks land in a collection, some get a due date
		if rng.Intn(2) == 0 {
			task.CollectionID = collections[rng.Intn(len(collections))].ID
		}
		if rng.Intn(3) == 0 {
			due := now.AddDate(0, 0, 1+rng.Intn(14))
			task.DueDate = &due
		}

		if err := st.CreateTask(ctx, task); err != nil {
			log.Printf("  Failed to create task %s: %v", title, err)
			continue
		}
		tasksCreated++
	}
	fmt.Printf("  Created %d tasks\n", tasksCreated)

	notesCreated := 0
	for _, title := range demoNoteTitles {
		note := &domain.Note{
			ID:        id.MustGenerate("note"),
			UserID:    user.ID,
			Title:     title,
			Content:   fmt.Sprintf("Demo content for %q, seeded on %s.", title, now.Format("2006-01-02")),
			TagIDs:    pickTags(rng, tagIDs),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if rng.Intn(2) == 0 {
			note.CollectionID = collections[rng.Intn(len(collections))].ID
		}

		if err := st.CreateNote(ctx, note); err != nil {
			log.Printf("  Failed to create note %s: %v", title, err)
			continue
		}
		notesCreated++
	}
	fmt.Printf("  Created %d notes\n", notesCreated)
}

// pickTags returns a random subset of up to three tag IDs.
func pickTags(rng *rand.Rand, tagIDs []string) []string {
	if len(tagIDs) == 0 {
		return nil
	}
	count := rng.Intn(min(4, len(tagIDs)+1))
	if count == 0 {
		return nil
	}

	shuffled := make([]string, len(tagIDs))
	copy(shuffled, tagIDs)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:count]
}

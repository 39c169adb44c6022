package main

import (
	"context"
	"fmt"
	"time"

	"github.com/studyloop/studyloop-backend/internal/config"
	"github.com/studyloop/studyloop-backend/internal/database"
	"github.com/studyloop/studyloop-backend/internal/logger"
	"github.com/studyloop/studyloop-backend/internal/model"
	"github.com/studyloop/studyloop-backend/internal/repository"
	"github.com/studyloop/studyloop-backend/internal/service"
)

// Seeds a demo course with chapters, lessons, question pools, exams and
// a handful of learner accounts. Intended for local development only.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	courseRepo := repository.NewCourseRepository(pool)
	chapterRepo := repository.NewChapterRepository(pool)
	lessonRepo := repository.NewLessonRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	learnerRepo := repository.NewLearnerRepository(pool)

	authService := service.NewAuthService(cfg, nil)
	courseService := service.NewCourseService(courseRepo, chapterRepo, lessonRepo)
	questionService := service.NewQuestionService(questionRepo, chapterRepo)
	examService := service.NewExamService(examRepo, chapterRepo, courseRepo)
	learnerService := service.NewLearnerService(learnerRepo, authService)

	fmt.Println("=== Seeding Demo Content ===")

	// ─── Course ────────────────────────────────────────────────────────
	course, err := courseService.CreateCourse(ctx, &model.CreateCourseRequest{
		Title:       "Introduction to Networking",
		Description: "Packet switching, addressing and transport fundamentals.",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create course")
	}
	fmt.Printf("Created course %q (%s)\n", course.Title, course.ID)

	chapterTitles := []string{
		"The Link Layer",
		"IP Addressing and Routing",
		"Transport Protocols",
	}

	lessonBodies := map[string][]string{
		"The Link Layer": {
			"Frames and MAC addresses",
			"Switching and collision domains",
		},
		"IP Addressing and Routing": {
			"IPv4 addressing and subnets",
			"Longest-prefix matching",
		},
		"Transport Protocols": {
			"UDP and datagram semantics",
			"TCP connections and flow control",
		},
	}

	for _, title := range chapterTitles {
		chapter, err := courseService.CreateChapter(ctx, course.ID, &model.CreateChapterRequest{Title: title})
		if err != nil {
			log.Fatal().Err(err).Str("chapter", title).Msg("Failed to create chapter")
		}

		for _, lessonTitle := range lessonBodies[title] {
			_, err := courseService.CreateLesson(ctx, chapter.ID, &model.CreateLessonRequest{
				Title: lessonTitle,
				Body:  fmt.Sprintf("Placeholder lesson content for %q.", lessonTitle),
			})
			if err != nil {
				log.Fatal().Err(err).Str("lesson", lessonTitle).Msg("Failed to create lesson")
			}
		}

		// Ten questions per chapter so chapter exams can sample.
		for i := 1; i <= 10; i++ {
			correct := []string{"A", "B", "C", "D"}[i%4]
			_, err := questionService.AddQuestion(ctx, chapter.ID, &model.AddQuestionRequest{
				QuestionText:  fmt.Sprintf("%s: sample question %d", title, i),
				OptionA:       fmt.Sprintf("Answer A for question %d", i),
				OptionB:       fmt.Sprintf("Answer B for question %d", i),
				OptionC:       fmt.Sprintf("Answer C for question %d", i),
				OptionD:       fmt.Sprintf("Answer D for question %d", i),
				CorrectOption: correct,
			})
			if err != nil {
				log.Fatal().Err(err).Str("chapter", title).Msg("Failed to create question")
			}
		}

		// Chapter exam drawing 5 of the 10 questions.
		chapterID := chapter.ID
		_, err = examService.CreateExam(ctx, &model.CreateExamRequest{
			CourseID:         course.ID,
			ChapterID:        &chapterID,
			Title:            fmt.Sprintf("%s Quiz", title),
			TimeLimitMinutes: 15,
			QuestionCount:    5,
		})
		if err != nil {
			log.Fatal().Err(err).Str("chapter", title).Msg("Failed to create chapter exam")
		}

		fmt.Printf("Created chapter %q with lessons, questions and quiz\n", title)
	}

	// ─── Final Exam ────────────────────────────────────────────────────
	// No chapter scope: the pool is every question in the course.
	_, err = examService.CreateExam(ctx, &model.CreateExamRequest{
		CourseID:         course.ID,
		Title:            "Networking Final Exam",
		TimeLimitMinutes: 60,
		QuestionCount:    20,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create final exam")
	}
	fmt.Println("Created final exam")

	// ─── Learners ──────────────────────────────────────────────────────
	names := []string{
		"Ada Lovelace", "Grace Hopper", "Alan Kay", "Barbara Liskov", "Dennis Ritchie",
	}
	for i, name := range names {
		email := fmt.Sprintf("learner%d@studyloop.dev", i+1)
		_, err := learnerService.CreateLearner(ctx, &model.CreateLearnerRequest{
			Name:     name,
			Email:    email,
			Password: "password123",
		})
		if err != nil {
			log.Fatal().Err(err).Str("email", email).Msg("Failed to create learner")
		}
	}
	fmt.Printf("Created %d learners (password: password123)\n", len(names))

	fmt.Println("=== Seeding Complete ===")
}

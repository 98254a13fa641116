package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"aegis/internal/document"
	"aegis/internal/domain/job"
	"aegis/internal/domain/matching"

	"golang.org/x/sync/errgroup"
)

var ErrUnsupportedFile = errors.New("invalid or missing resume file")

type UploadedFile struct {
	Filename string
	Data     []byte
}

type ScreeningResult struct {
	Candidates  []matching.Candidate
	Shortlisted []matching.Candidate
	Rejected    []matching.Candidate
	Summary     matching.Summary
}

type JobFindingResult struct {
	Analysis matching.Analysis
	Matches  []matching.Ranked[job.Listing]
}

type JobLister interface {
	ListJobs(ctx context.Context) ([]job.Listing, error)
}

type ResumeUsecase interface {
	Analyze(ctx context.Context, file UploadedFile, jobDescription string) (matching.Analysis, error)
	Screen(ctx context.Context, files []UploadedFile, jobDescription string) (ScreeningResult, error)
	FindJobs(ctx context.Context, file UploadedFile, jobDescription string) (JobFindingResult, error)
}

type Resume struct {
	engine  *matching.Engine
	jobs    JobLister
	workers int
	logger  *log.Logger
}

func NewResumeUsecase(engine *matching.Engine, jobs JobLister, workers int, logger *log.Logger) *Resume {
	if workers <= 0 {
		workers = 1
	}
	return &Resume{engine: engine, jobs: jobs, workers: workers, logger: logger}
}

func (u *Resume) Analyze(ctx context.Context, file UploadedFile, jobDescription string) (matching.Analysis, error) {
	if !document.Allowed(file.Filename) {
		return matching.Analysis{}, ErrUnsupportedFile
	}
	if err := ctx.Err(); err != nil {
		return matching.Analysis{}, err
	}
	text := u.readText(file)
	return u.engine.Analyze(text, jobDescription), nil
}

// Screen ranks every supported resume against one job description. Files
// with other extensions are skipped; unreadable files score as empty text.
func (u *Resume) Screen(ctx context.Context, files []UploadedFile, jobDescription string) (ScreeningResult, error) {
	if len(files) == 0 || strings.TrimSpace(jobDescription) == "" {
		return ScreeningResult{}, ErrInvalidInput
	}

	accepted := make([]UploadedFile, 0, len(files))
	for _, f := range files {
		if document.Allowed(f.Filename) {
			accepted = append(accepted, f)
		}
	}

	inputs := make([]matching.CandidateInput, len(accepted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.workers)
	for i, f := range accepted {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileName := document.SecureFilename(f.Filename)
			if fileName == "" {
				fileName = "resume"
			}
			name := document.CandidateName(fileName)
			inputs[i] = matching.CandidateInput{
				Name:     name,
				Email:    document.PlaceholderEmail(name),
				FileName: fileName,
				Skills:   u.engine.Extract(u.readText(f)),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return ScreeningResult{}, err
	}

	target := u.engine.Extract(jobDescription)
	candidates, summary := matching.RankCandidates(inputs, target)
	shortlisted, rejected := matching.Partition(candidates)

	if u.logger != nil {
		u.logger.Printf("Resume screen | files=%d accepted=%d shortlisted=%d rejected=%d", len(files), len(accepted), summary.Shortlisted, summary.Rejected)
	}

	return ScreeningResult{
		Candidates:  candidates,
		Shortlisted: shortlisted,
		Rejected:    rejected,
		Summary:     summary,
	}, nil
}

func (u *Resume) FindJobs(ctx context.Context, file UploadedFile, jobDescription string) (JobFindingResult, error) {
	if !document.Allowed(file.Filename) {
		return JobFindingResult{}, ErrUnsupportedFile
	}

	text := u.readText(file)
	analysis := u.engine.Analyze(text, jobDescription)

	listings, err := u.jobs.ListJobs(ctx)
	if err != nil {
		return JobFindingResult{}, err
	}

	resumeSkills := u.engine.Extract(text)
	matches := matching.RankJobs(listings, func(l job.Listing) matching.SkillSet {
		return u.engine.Extract(l.MatchText())
	}, resumeSkills)

	return JobFindingResult{Analysis: analysis, Matches: matches}, nil
}

func (u *Resume) readText(f UploadedFile) string {
	res := document.Extract(f.Filename, f.Data)
	if res.Err != nil && u.logger != nil {
		u.logger.Printf("Resume parse failed | file=%q err=%v", f.Filename, res.Err)
	}
	return res.TextOrEmpty()
}

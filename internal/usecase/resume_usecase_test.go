package usecase

import (
	"context"
	"errors"
	"testing"

	"aegis/internal/domain/job"
	"aegis/internal/domain/matching"

	"github.com/google/uuid"
)

type stubJobLister struct {
	items []job.Listing
	err   error
}

func (s stubJobLister) ListJobs(context.Context) ([]job.Listing, error) { return s.items, s.err }

func newResumeUC(jobs JobLister) *Resume {
	return NewResumeUsecase(matching.NewEngine(matching.DefaultVocabulary()), jobs, 2, nil)
}

func TestResumeUsecase_Analyze(t *testing.T) {
	uc := newResumeUC(stubJobLister{})
	file := UploadedFile{Filename: "ada.docx", Data: buildDocx(t, "Python and Docker engineer")}

	got, err := uc.Analyze(context.Background(), file, "We need Python, Docker and AWS")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Result.Score != 66 {
		t.Fatalf("expected score 66, got %d", got.Result.Score)
	}
	if got.Result.Missing.String() != "AWS" {
		t.Fatalf("expected AWS missing, got %q", got.Result.Missing.String())
	}
	if len(got.Recommendations) != 2 {
		t.Fatalf("expected 2 recommendations, got %v", got.Recommendations)
	}
}

func TestResumeUsecase_AnalyzeRejectsUnsupportedFile(t *testing.T) {
	uc := newResumeUC(stubJobLister{})
	_, err := uc.Analyze(context.Background(), UploadedFile{Filename: "resume.txt", Data: []byte("Python")}, "Python")
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
}

func TestResumeUsecase_AnalyzeCorruptFileScoresZero(t *testing.T) {
	uc := newResumeUC(stubJobLister{})
	got, err := uc.Analyze(context.Background(), UploadedFile{Filename: "cv.pdf", Data: []byte("garbage")}, "Python SQL")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.Result.Score != 0 || got.Result.Missing.Len() != 2 {
		t.Fatalf("unexpected result %+v", got.Result)
	}
}

func TestResumeUsecase_Screen(t *testing.T) {
	uc := newResumeUC(stubJobLister{})
	files := []UploadedFile{
		{Filename: "broken.pdf", Data: []byte("not a pdf")},
		{Filename: "bob_smith.docx", Data: buildDocx(t, "Python only")},
		{Filename: "notes.txt", Data: []byte("Python SQL AWS")},
		{Filename: "alice.docx", Data: buildDocx(t, "Python, SQL and AWS")},
	}

	got, err := uc.Screen(context.Background(), files, "Python SQL AWS")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if len(got.Candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(got.Candidates))
	}
	wantOrder := []struct {
		name  string
		score int
	}{{"Alice", 100}, {"Bob Smith", 33}, {"Broken", 0}}
	for i, w := range wantOrder {
		c := got.Candidates[i]
		if c.Name != w.name || c.Result.Score != w.score {
			t.Fatalf("candidate %d: expected %s/%d, got %s/%d", i, w.name, w.score, c.Name, c.Result.Score)
		}
	}
	if got.Candidates[1].Email != "bob.smith@email.com" || got.Candidates[1].FileName != "bob_smith.docx" {
		t.Fatalf("unexpected candidate %+v", got.Candidates[1])
	}
	if len(got.Shortlisted) != 1 || len(got.Rejected) != 2 {
		t.Fatalf("unexpected partition %d/%d", len(got.Shortlisted), len(got.Rejected))
	}
	if got.Summary.Total != 3 || got.Summary.ShortlistRate != 33.3 {
		t.Fatalf("unexpected summary %+v", got.Summary)
	}
}

func TestResumeUsecase_ScreenRequiresInput(t *testing.T) {
	uc := newResumeUC(stubJobLister{})
	if _, err := uc.Screen(context.Background(), nil, "Python"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without files, got %v", err)
	}
	files := []UploadedFile{{Filename: "a.docx", Data: buildDocx(t, "Python")}}
	if _, err := uc.Screen(context.Background(), files, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without description, got %v", err)
	}
}

func TestResumeUsecase_ScreenOnlyUnsupportedFiles(t *testing.T) {
	uc := newResumeUC(stubJobLister{})
	got, err := uc.Screen(context.Background(), []UploadedFile{{Filename: "a.txt"}}, "Python")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got.Candidates) != 0 || got.Summary.Total != 0 || got.Summary.ShortlistRate != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
}

func TestResumeUsecase_FindJobs(t *testing.T) {
	web := job.Listing{Job: job.Job{ID: uuid.New(), Title: "Full-Stack Dev", Description: "Build web apps", Requirements: "React, Node.js"}}
	data := job.Listing{Job: job.Job{ID: uuid.New(), Title: "Data Engineer", Description: "Data pipelines", Requirements: "Python, SQL, AWS"}}
	sales := job.Listing{Job: job.Job{ID: uuid.New(), Title: "Sales", Description: "Sales"}}
	uc := newResumeUC(stubJobLister{items: []job.Listing{sales, data, web}})

	file := UploadedFile{Filename: "dev.docx", Data: buildDocx(t, "Python React Node.js developer")}
	got, err := uc.FindJobs(context.Background(), file, "React")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if got.Analysis.Result.Score != 100 {
		t.Fatalf("expected analysis score 100, got %d", got.Analysis.Result.Score)
	}
	if len(got.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got.Matches))
	}
	if got.Matches[0].Item.ID != web.ID || got.Matches[0].Result.Score != 100 {
		t.Fatalf("unexpected first match %+v", got.Matches[0])
	}
	if got.Matches[1].Item.ID != data.ID || got.Matches[1].Result.Score != 33 {
		t.Fatalf("unexpected second match %+v", got.Matches[1])
	}
}

func TestResumeUsecase_FindJobsPropagatesListError(t *testing.T) {
	uc := newResumeUC(stubJobLister{err: errBoom})
	file := UploadedFile{Filename: "dev.docx", Data: buildDocx(t, "Python")}
	if _, err := uc.FindJobs(context.Background(), file, ""); !errors.Is(err, errBoom) {
		t.Fatalf("expected errBoom, got %v", err)
	}
}

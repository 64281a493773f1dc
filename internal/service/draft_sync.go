package service

import (
	"course_studio_backend/internal/model"
	"course_studio_backend/internal/util"
	"encoding/json"
	"fmt"
	"sort"
)

// CourseDraft is the canonical authoring shape every editor mode is
// normalized into and rendered from. Module and lesson order is implicit in
// slice position; temp IDs tie draft items to client-side references until
// finalization assigns real IDs.
type CourseDraft struct {
	Title          string        `json:"title"`
	Subtitle       string        `json:"subtitle,omitempty"`
	Description    string        `json:"description,omitempty"`
	Category       string        `json:"category,omitempty"`
	Language       string        `json:"language,omitempty"`
	EstimatedHours int           `json:"estimatedHours,omitempty"`
	CoverURL       string        `json:"coverUrl,omitempty"`
	Modules        []ModuleDraft `json:"modules"`
}

type ModuleDraft struct {
	TempID   string        `json:"tempId"`
	ModuleID uint          `json:"moduleId,omitempty"` // set when editing an existing course
	Title    string        `json:"title"`
	Summary  string        `json:"summary,omitempty"`
	Lessons  []LessonDraft `json:"lessons"`
}

type LessonDraft struct {
	TempID      string            `json:"tempId"`
	LessonID    uint              `json:"lessonId,omitempty"`
	Title       string            `json:"title"`
	Type        model.LessonType  `json:"type"`
	AccessLevel model.AccessLevel `json:"accessLevel"`
	Content     string            `json:"content,omitempty"`
	VideoURL    string            `json:"videoUrl,omitempty"`
	DurationSec int               `json:"durationSec,omitempty"`
	FreePreview bool              `json:"freePreview,omitempty"`
}

// wizard mode groups fields into the three wizard steps.
type wizardDraft struct {
	Steps wizardSteps `json:"steps"`
}

type wizardSteps struct {
	Info       wizardInfo       `json:"info"`
	Curriculum wizardCurriculum `json:"curriculum"`
	Settings   wizardSettings   `json:"settings"`
}

type wizardInfo struct {
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Language    string `json:"language,omitempty"`
}

type wizardCurriculum struct {
	Sections []wizardSection `json:"sections"`
}

type wizardSection struct {
	TempID   string        `json:"tempId"`
	ModuleID uint          `json:"moduleId,omitempty"`
	Title    string        `json:"title"`
	Summary  string        `json:"summary,omitempty"`
	Items    []LessonDraft `json:"items"`
}

type wizardSettings struct {
	EstimatedHours int    `json:"estimatedHours,omitempty"`
	CoverURL       string `json:"coverUrl,omitempty"`
}

// builder mode is a flat node list: one course node's worth of fields plus
// module and lesson nodes linked by parent references and sorted by
// position.
type builderDraft struct {
	Course builderCourse `json:"course"`
	Nodes  []builderNode `json:"nodes"`
}

type builderCourse struct {
	Title          string `json:"title"`
	Subtitle       string `json:"subtitle,omitempty"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category,omitempty"`
	Language       string `json:"language,omitempty"`
	EstimatedHours int    `json:"estimatedHours,omitempty"`
	CoverURL       string `json:"coverUrl,omitempty"`
}

type builderNode struct {
	ID       string          `json:"id"`
	Kind     string          `json:"kind"` // "module" or "lesson"
	ParentID string          `json:"parentId,omitempty"`
	Position int             `json:"position"`
	Attrs    json.RawMessage `json:"attrs"`
}

type builderModuleAttrs struct {
	ModuleID uint   `json:"moduleId,omitempty"`
	Title    string `json:"title"`
	Summary  string `json:"summary,omitempty"`
}

// NormalizeDraft parses a mode-specific payload into the canonical draft,
// filling defaults and generating temp IDs where the client omitted them.
func NormalizeDraft(mode model.EditorMode, raw json.RawMessage) (*CourseDraft, error) {
	var draft *CourseDraft
	var err error

	switch mode {
	case model.ModeTraditional:
		draft, err = normalizeTraditional(raw)
	case model.ModeWizard:
		draft, err = normalizeWizard(raw)
	case model.ModeBuilder:
		draft, err = normalizeBuilder(raw)
	default:
		return nil, util.ErrInvalidEditorMode
	}
	if err != nil {
		return nil, err
	}

	applyDraftDefaults(draft)
	return draft, nil
}

// TransformForMode renders the canonical draft in an editor mode's payload
// shape. Normalizing the result yields the original draft back.
func TransformForMode(draft *CourseDraft, mode model.EditorMode) (json.RawMessage, error) {
	switch mode {
	case model.ModeTraditional:
		return json.Marshal(draft)
	case model.ModeWizard:
		return json.Marshal(toWizard(draft))
	case model.ModeBuilder:
		return json.Marshal(toBuilder(draft))
	}
	return nil, util.ErrInvalidEditorMode
}

func normalizeTraditional(raw json.RawMessage) (*CourseDraft, error) {
	var draft CourseDraft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return nil, fmt.Errorf("malformed traditional draft: %w", err)
	}
	return &draft, nil
}

func normalizeWizard(raw json.RawMessage) (*CourseDraft, error) {
	var w wizardDraft
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("malformed wizard draft: %w", err)
	}

	draft := &CourseDraft{
		Title:          w.Steps.Info.Title,
		Subtitle:       w.Steps.Info.Subtitle,
		Description:    w.Steps.Info.Description,
		Category:       w.Steps.Info.Category,
		Language:       w.Steps.Info.Language,
		EstimatedHours: w.Steps.Settings.EstimatedHours,
		CoverURL:       w.Steps.Settings.CoverURL,
	}
	for _, section := range w.Steps.Curriculum.Sections {
		draft.Modules = append(draft.Modules, ModuleDraft{
			TempID:   section.TempID,
			ModuleID: section.ModuleID,
			Title:    section.Title,
			Summary:  section.Summary,
			Lessons:  section.Items,
		})
	}
	return draft, nil
}

func normalizeBuilder(raw json.RawMessage) (*CourseDraft, error) {
	var b builderDraft
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("malformed builder draft: %w", err)
	}

	draft := &CourseDraft{
		Title:          b.Course.Title,
		Subtitle:       b.Course.Subtitle,
		Description:    b.Course.Description,
		Category:       b.Course.Category,
		Language:       b.Course.Language,
		EstimatedHours: b.Course.EstimatedHours,
		CoverURL:       b.Course.CoverURL,
	}

	nodes := make([]builderNode, len(b.Nodes))
	copy(nodes, b.Nodes)
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Position < nodes[j].Position })

	moduleIndex := map[string]int{}
	for _, n := range nodes {
		if n.Kind != "module" {
			continue
		}
		var attrs builderModuleAttrs
		if err := json.Unmarshal(n.Attrs, &attrs); err != nil {
			return nil, fmt.Errorf("malformed module node %q: %w", n.ID, err)
		}
		moduleIndex[n.ID] = len(draft.Modules)
		draft.Modules = append(draft.Modules, ModuleDraft{
			TempID:   n.ID,
			ModuleID: attrs.ModuleID,
			Title:    attrs.Title,
			Summary:  attrs.Summary,
		})
	}
	for _, n := range nodes {
		switch n.Kind {
		case "module":
		case "lesson":
			idx, ok := moduleIndex[n.ParentID]
			if !ok {
				// A lesson pointing at a missing module is exactly the
				// dangling-reference state finalization must never see.
				return nil, fmt.Errorf("lesson node %q references unknown module %q", n.ID, n.ParentID)
			}
			var lesson LessonDraft
			if err := json.Unmarshal(n.Attrs, &lesson); err != nil {
				return nil, fmt.Errorf("malformed lesson node %q: %w", n.ID, err)
			}
			lesson.TempID = n.ID
			draft.Modules[idx].Lessons = append(draft.Modules[idx].Lessons, lesson)
		default:
			return nil, fmt.Errorf("unknown node kind %q", n.Kind)
		}
	}
	return draft, nil
}

func applyDraftDefaults(draft *CourseDraft) {
	if draft.Language == "" {
		draft.Language = "en"
	}
	for i := range draft.Modules {
		m := &draft.Modules[i]
		if m.TempID == "" {
			m.TempID = model.GenerateUUID()
		}
		if m.Lessons == nil {
			m.Lessons = []LessonDraft{}
		}
		for j := range m.Lessons {
			l := &m.Lessons[j]
			if l.TempID == "" {
				l.TempID = model.GenerateUUID()
			}
			if l.Type == "" {
				l.Type = model.LessonArticle
			}
			if l.AccessLevel == "" {
				l.AccessLevel = model.AccessRegistered
			}
		}
	}
	if draft.Modules == nil {
		draft.Modules = []ModuleDraft{}
	}
}

func toWizard(draft *CourseDraft) wizardDraft {
	w := wizardDraft{
		Steps: wizardSteps{
			Info: wizardInfo{
				Title:       draft.Title,
				Subtitle:    draft.Subtitle,
				Description: draft.Description,
				Category:    draft.Category,
				Language:    draft.Language,
			},
			Settings: wizardSettings{
				EstimatedHours: draft.EstimatedHours,
				CoverURL:       draft.CoverURL,
			},
		},
	}
	for _, m := range draft.Modules {
		w.Steps.Curriculum.Sections = append(w.Steps.Curriculum.Sections, wizardSection{
			TempID:   m.TempID,
			ModuleID: m.ModuleID,
			Title:    m.Title,
			Summary:  m.Summary,
			Items:    m.Lessons,
		})
	}
	return w
}

func toBuilder(draft *CourseDraft) builderDraft {
	b := builderDraft{
		Course: builderCourse{
			Title:          draft.Title,
			Subtitle:       draft.Subtitle,
			Description:    draft.Description,
			Category:       draft.Category,
			Language:       draft.Language,
			EstimatedHours: draft.EstimatedHours,
			CoverURL:       draft.CoverURL,
		},
	}
	position := 0
	for _, m := range draft.Modules {
		position++
		attrs, _ := json.Marshal(builderModuleAttrs{
			ModuleID: m.ModuleID,
			Title:    m.Title,
			Summary:  m.Summary,
		})
		b.Nodes = append(b.Nodes, builderNode{
			ID:       m.TempID,
			Kind:     "module",
			Position: position,
			Attrs:    attrs,
		})
		for _, l := range m.Lessons {
			position++
			attrs, _ := json.Marshal(l)
			b.Nodes = append(b.Nodes, builderNode{
				ID:       l.TempID,
				Kind:     "lesson",
				ParentID: m.TempID,
				Position: position,
				Attrs:    attrs,
			})
		}
	}
	return b
}

// DraftFromCourse seeds a canonical draft from a persisted course so an
// editing session starts from the saved curriculum.
func DraftFromCourse(course *model.Course) *CourseDraft {
	draft := &CourseDraft{
		Title:          course.Title,
		Subtitle:       course.Subtitle,
		Description:    course.Description,
		Category:       course.Category,
		Language:       course.Language,
		EstimatedHours: course.EstimatedHours,
		CoverURL:       course.CoverURL,
		Modules:        []ModuleDraft{},
	}
	for _, m := range course.Modules {
		md := ModuleDraft{
			TempID:   model.GenerateUUID(),
			ModuleID: m.ID,
			Title:    m.Title,
			Summary:  m.Summary,
			Lessons:  []LessonDraft{},
		}
		for _, l := range m.Lessons {
			md.Lessons = append(md.Lessons, LessonDraft{
				TempID:      model.GenerateUUID(),
				LessonID:    l.ID,
				Title:       l.Title,
				Type:        l.Type,
				AccessLevel: l.AccessLevel,
				Content:     l.Content,
				VideoURL:    l.VideoURL,
				DurationSec: l.DurationSec,
				FreePreview: l.FreePreview,
			})
		}
		draft.Modules = append(draft.Modules, md)
	}
	return draft
}

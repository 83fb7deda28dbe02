package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chris-regnier/dreamctl/internal/dream"
	"github.com/chris-regnier/dreamctl/internal/interpret"
	"github.com/chris-regnier/dreamctl/internal/journal"
	"github.com/chris-regnier/dreamctl/internal/storage"
)

// DreamView is a dream with its parsed reading; drafts carry no reading.
type DreamView struct {
	dream.Entry
	Draft   bool               `json:"draft"`
	Reading *interpret.Reading `json:"reading,omitempty"`
}

// RecordRequest is the body of POST /dreams.
type RecordRequest struct {
	Text  string `json:"text"`
	Title string `json:"title"`
	Mood  string `json:"mood"`
	Defer bool   `json:"defer"`
}

// EditRequest is the body of PATCH /dreams/:id. Absent fields are unchanged.
type EditRequest struct {
	Title *string `json:"title"`
	Mood  *string `json:"mood"`
}

// PromptRequest is the body of POST /prompt.
type PromptRequest struct {
	Text string `json:"text"`
}

func (s *Server) view(e dream.Entry) DreamView {
	v := DreamView{Entry: e, Draft: e.IsDraft()}
	if !v.Draft {
		r := s.svc.Reading(e)
		v.Reading = &r
	}
	return v
}

func (s *Server) handleMoods(c *fiber.Ctx) error {
	type moodView struct {
		Mood dream.Mood `json:"mood"`
		Tone dream.Tone `json:"tone"`
	}
	moods := dream.Moods()
	out := make([]moodView, len(moods))
	for i, m := range moods {
		out[i] = moodView{Mood: m, Tone: m.Tone()}
	}
	return c.JSON(fiber.Map{"data": out})
}

func (s *Server) handlePrompt(c *fiber.Ctx) error {
	var req PromptRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid payload")
	}
	prompt, err := s.svc.Prompt(req.Text)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"prompt": prompt, "version": interpret.PromptVersion}})
}

func parseListOptions(c *fiber.Ctx) (storage.ListOptions, error) {
	opts := storage.ListOptions{
		DraftsOnly: c.QueryBool("drafts", false),
		Limit:      c.QueryInt("limit", 0),
		Offset:     c.QueryInt("offset", 0),
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		return opts, badRequest("limit and offset must not be negative")
	}
	if m := c.Query("mood"); m != "" {
		mood, err := dream.ParseMood(m)
		if err != nil {
			return opts, badRequest("%v", err)
		}
		opts.Mood = mood
	}
	for key, dst := range map[string]**time.Time{"since": &opts.Since, "until": &opts.Until} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return opts, badRequest("invalid %s: want RFC 3339 time", key)
		}
		*dst = &t
	}
	return opts, nil
}

func (s *Server) handleList(c *fiber.Ctx) error {
	opts, err := parseListOptions(c)
	if err != nil {
		return err
	}
	items, err := s.svc.List(c.UserContext(), s.user(c), opts)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": items,
		"meta": fiber.Map{"count": len(items)},
	})
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	hits, err := s.svc.Search(c.UserContext(), s.user(c), c.Query("q"), c.QueryInt("limit", 20))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": hits,
		"meta": fiber.Map{"count": len(hits)},
	})
}

// handleRecord saves the dream and interprets it. When interpretation fails
// the draft is still returned, with the failure under "warning".
func (s *Server) handleRecord(c *fiber.Ctx) error {
	var req RecordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid payload")
	}
	var mood dream.Mood
	if req.Mood != "" {
		m, err := dream.ParseMood(req.Mood)
		if err != nil {
			return badRequest("%v", err)
		}
		mood = m
	}

	e, err := s.svc.Record(c.UserContext(), journal.RecordInput{
		UserID: s.user(c),
		Text:   req.Text,
		Title:  req.Title,
		Mood:   mood,
		Defer:  req.Defer,
	})
	if err != nil && e.ID == "" {
		return err
	}

	body := fiber.Map{"data": s.view(e)}
	if err != nil {
		body["warning"] = err.Error()
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

func (s *Server) handleGet(c *fiber.Ctx) error {
	e, err := s.svc.Get(c.UserContext(), s.user(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": s.view(e)})
}

func (s *Server) handleEdit(c *fiber.Ctx) error {
	var req EditRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("invalid payload")
	}
	in := journal.EditInput{Title: req.Title}
	if req.Mood != nil {
		m, err := dream.ParseMood(*req.Mood)
		if err != nil {
			return badRequest("%v", err)
		}
		in.Mood = &m
	}

	e, err := s.svc.Edit(c.UserContext(), s.user(c), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": s.view(e)})
}

func (s *Server) handleDelete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := s.svc.Delete(c.UserContext(), s.user(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "deleted": true}})
}

func (s *Server) handleInterpret(c *fiber.Ctx) error {
	e, err := s.svc.Interpret(c.UserContext(), s.user(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": s.view(e)})
}

func (s *Server) handleInterpretDrafts(c *fiber.Ctx) error {
	res, err := s.svc.InterpretDrafts(c.UserContext(), s.user(c))
	if err != nil {
		return err
	}
	failed := make(map[string]string, len(res.Failed))
	for id, ferr := range res.Failed {
		failed[id] = ferr.Error()
	}
	views := make([]DreamView, len(res.Interpreted))
	for i, e := range res.Interpreted {
		views[i] = s.view(e)
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"interpreted": views, "failed": failed},
		"meta": fiber.Map{"count": len(views), "failed": len(failed)},
	})
}

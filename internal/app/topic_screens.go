package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lessons_reporter_bot/internal/app/action"
	"lessons_reporter_bot/internal/app/pagination"
	"lessons_reporter_bot/internal/app/session"
	"lessons_reporter_bot/internal/domain/listing"
	"lessons_reporter_bot/internal/domain/topic"
)

func (s *BotService) topicList(ctx context.Context, page int) ([]Screen, error) {
	all, err := s.topics.List(ctx, listing.By(topic.FieldLabel))
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	res := pagination.Paginate(all, page, s.settings.PageSize)

	buttons := make([]Button, 0, len(res.Items)+4)
	for _, t := range res.Items {
		buttons = append(buttons, button(t.Label, action.ShowItem{Item: action.ItemTopic, Page: page, ID: t.ID}))
	}
	toPage := func(p int) action.Action { return action.ShowList{Item: action.ItemTopic, Page: p} }
	buttons = append(buttons, pageButtons(res, page, toPage, toPage)...)
	buttons = append(buttons,
		button(labelAddTopic, action.CreateTopic{Page: page}),
		menuButton(),
	)
	return one(Screen{Text: textChooseTopic, Buttons: buttons, RowWidth: 1}), nil
}

func (s *BotService) topicDetail(ctx context.Context, id int64, page int) ([]Screen, error) {
	back := button(labelBack, action.ShowList{Item: action.ItemTopic, Page: page})

	t, err := s.topics.GetByID(ctx, id)
	if errors.Is(err, topic.ErrNotFound) {
		return one(Screen{Text: textTopicNotFound, Buttons: []Button{back}}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get topic (id: %d): %w", id, err)
	}
	return one(Screen{
		Text: t.Label,
		Buttons: []Button{
			button(labelDelete, action.DeleteItem{Item: action.ItemTopic, Page: page, ID: t.ID}),
			back,
		},
	}), nil
}

func (s *BotService) deleteTopic(ctx context.Context, id int64, page int) ([]Screen, error) {
	deleted, err := s.topics.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("delete topic (id: %d): %w", id, err)
	}
	text := textTopicNotFound
	if deleted {
		text = textTopicDeleted
	}
	return one(Screen{
		Text:    text,
		Buttons: []Button{button(labelBack, action.ShowList{Item: action.ItemTopic, Page: page})},
	}), nil
}

func topicNamePrompt(page int) Screen {
	return Screen{
		Text:    textEnterTopic,
		Buttons: []Button{button(labelBack, action.ShowList{Item: action.ItemTopic, Page: page})},
	}
}

func (s *BotService) onTopicName(ctx context.Context, sess *session.Session, p session.Pending, text string) ([]Screen, error) {
	label := strings.TrimSpace(text)
	if label == "" {
		sess.Expect(p)
		return one(topicNamePrompt(p.Page)), nil
	}

	t := &topic.Topic{Label: label}
	if err := s.topics.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	s.logger.WithField("topic_id", t.ID).Info("Topic created")
	return s.topicDetail(ctx, t.ID, p.Page)
}

package publisher

import (
	"encoding/json"

	"github.com/MemeBoard/board-service/internal/dto"
	natsClient "github.com/MemeBoard/board-service/internal/nats"
)

const (
	POST_CREATED_SUBJECT  = "memeboard.post.created"
	POST_DELETED_SUBJECT  = "memeboard.post.deleted"
	POST_LIKED_SUBJECT    = "memeboard.post.liked"
	COMMENT_ADDED_SUBJECT = "memeboard.comment.added"
)

type Publisher interface {
	PublishPostCreated(msg dto.MQPostCreatedMsg) error
	PublishPostDeleted(msg dto.MQPostDeletedMsg) error
	PublishPostLiked(msg dto.MQPostLikedMsg) error
	PublishCommentAdded(msg dto.MQCommentAddedMsg) error
}

type natsPublisher struct {
	nats *natsClient.Client
}

// New returns a publisher backed by nats. A nil client yields a publisher that drops every event.
func New(nats *natsClient.Client) Publisher {
	if nats == nil {
		return noopPublisher{}
	}

	return &natsPublisher{nats: nats}
}

func (p *natsPublisher) PublishPostCreated(msg dto.MQPostCreatedMsg) error {
	return p.publish(POST_CREATED_SUBJECT, msg)
}

func (p *natsPublisher) PublishPostDeleted(msg dto.MQPostDeletedMsg) error {
	return p.publish(POST_DELETED_SUBJECT, msg)
}

func (p *natsPublisher) PublishPostLiked(msg dto.MQPostLikedMsg) error {
	return p.publish(POST_LIKED_SUBJECT, msg)
}

func (p *natsPublisher) PublishCommentAdded(msg dto.MQCommentAddedMsg) error {
	return p.publish(COMMENT_ADDED_SUBJECT, msg)
}

func (p *natsPublisher) publish(subject string, msg interface{}) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.nats.Publish(subject, data)
}

type noopPublisher struct{}

func (noopPublisher) PublishPostCreated(dto.MQPostCreatedMsg) error   { return nil }
func (noopPublisher) PublishPostDeleted(dto.MQPostDeletedMsg) error   { return nil }
func (noopPublisher) PublishPostLiked(dto.MQPostLikedMsg) error       { return nil }
func (noopPublisher) PublishCommentAdded(dto.MQCommentAddedMsg) error { return nil }

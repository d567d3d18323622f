package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/zulandar/tenco/internal/rollcall"
	"github.com/zulandar/tenco/internal/slack"
)

// notInChannelNotice is shown to the organizer when the bot is not a member
// of the channel the command ran in.
const notInChannelNotice = "「点呼するやつ」がチャンネルに参加していません"

type handlers struct {
	svc   *rollcall.Service
	token string
}

func registerRoutes(router *gin.Engine, h *handlers) {
	router.GET("/", h.root)
	router.POST("/commands/tenco", h.command)
	router.POST("/interactivities", h.interactivity)
	router.POST("/events", h.events)
}

func (h *handlers) root(c *gin.Context) {
	c.String(http.StatusOK, "bot is ready")
}

// command handles the /tenco slash command and opens the member-selection
// modal.
func (h *handlers) command(c *gin.Context) {
	cmd, err := slackapi.SlashCommandParse(c.Request)
	if err != nil {
		c.String(http.StatusBadRequest, "Unexpected Body")
		return
	}
	if !cmd.ValidateToken(h.token) {
		c.String(http.StatusForbidden, "Forbidden")
		return
	}
	if cmd.TriggerID == "" || cmd.ChannelID == "" {
		c.String(http.StatusBadRequest, "Invalid Parameters")
		return
	}

	err = h.svc.Initiate(c.Request.Context(), cmd.TriggerID, cmd.ChannelID)
	switch {
	case errors.Is(err, rollcall.ErrNotInChannel):
		c.String(http.StatusOK, notInChannelNotice)
	case err != nil:
		h.fail(c, err)
	default:
		c.Status(http.StatusOK)
	}
}

// interactivity handles the modal submission and publishes the tracking
// message.
func (h *handlers) interactivity(c *gin.Context) {
	payload := c.PostForm("payload")
	if payload == "" {
		c.String(http.StatusBadRequest, "Invalid Body")
		return
	}
	var callback slackapi.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		c.String(http.StatusBadRequest, "Invalid Body")
		return
	}
	if callback.Token != h.token {
		c.String(http.StatusForbidden, "Forbidden")
		return
	}
	if callback.Type != slackapi.InteractionTypeViewSubmission {
		log.Printf("server: unknown interactivity type: %s", callback.Type)
		c.String(http.StatusBadRequest, "Unknown Interactivity Type")
		return
	}

	channelID := callback.View.PrivateMetadata
	selected, ok := selectedUsers(callback.View.State)
	if channelID == "" || !ok {
		log.Printf("server: invalid state of view: callback %s", callback.View.CallbackID)
		c.String(http.StatusBadRequest, "Invalid State of View")
		return
	}

	if err := h.svc.Publish(c.Request.Context(), channelID, selected); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// selectedUsers digs the selection out of the view state. An empty
// selection is valid; a missing block or action is not.
func selectedUsers(state *slackapi.ViewState) ([]string, bool) {
	if state == nil {
		return nil, false
	}
	actions, ok := state.Values[rollcall.SelectBlockID]
	if !ok {
		return nil, false
	}
	action, ok := actions[rollcall.SelectActionID]
	if !ok {
		return nil, false
	}
	// A submission with nobody picked decodes to an empty non-nil slice;
	// a payload missing selected_users entirely leaves it nil and is
	// malformed, the same split the original null check made.
	if action.SelectedUsers == nil {
		return nil, false
	}
	return action.SelectedUsers, true
}

// eventEnvelope is the outer shape shared by every events API delivery.
// Only the fields needed to verify and dispatch are decoded here; the
// event body is re-parsed by type once the envelope checks out.
type eventEnvelope struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	Challenge string `json:"challenge"`
}

// events handles the events API callback: the one-time URL verification
// handshake and reaction deliveries.
func (h *handlers) events(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "Unexpected Body")
		return
	}
	var envelope eventEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.String(http.StatusBadRequest, "Unexpected Body")
		return
	}
	if envelope.Token != h.token {
		c.String(http.StatusForbidden, "Forbidden")
		return
	}

	switch envelope.Type {
	case slackevents.URLVerification:
		c.String(http.StatusOK, envelope.Challenge)
	case slackevents.CallbackEvent:
		parsed, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
		if err != nil {
			c.String(http.StatusBadRequest, "Invalid Body")
			return
		}
		h.reaction(c, parsed)
	default:
		log.Printf("server: unknown event type: %s", envelope.Type)
		c.String(http.StatusBadRequest, "Unknown Payload Type")
	}
}

// reaction applies one acknowledgement to its tracking message.
func (h *handlers) reaction(c *gin.Context, event slackevents.EventsAPIEvent) {
	added, ok := event.InnerEvent.Data.(*slackevents.ReactionAddedEvent)
	if !ok {
		// Only reaction_added is subscribed; anything else lacks the
		// fields a reaction needs.
		c.String(http.StatusBadRequest, "Invalid Body")
		return
	}

	err := h.svc.ProcessReaction(c.Request.Context(), rollcall.ReactionEvent{
		ChannelID:  added.Item.Channel,
		Timestamp:  added.Item.Timestamp,
		ItemUserID: added.ItemUser,
		ReactorID:  added.User,
	})
	switch {
	case errors.Is(err, rollcall.ErrMalformedEvent):
		c.String(http.StatusBadRequest, "Invalid Body")
	case errors.Is(err, rollcall.ErrNotOurs):
		log.Printf("server: ignore uninterested reaction")
		c.Status(http.StatusOK)
	case err != nil:
		h.fail(c, err)
	default:
		c.Status(http.StatusOK)
	}
}

// fail converts an error into the generic 500 response, logging the detail
// server-side only.
func (h *handlers) fail(c *gin.Context, err error) {
	var apiErr *slack.APIError
	if errors.As(err, &apiErr) {
		log.Printf("server: %v", apiErr)
		c.String(http.StatusInternalServerError, "Slack API Error")
		return
	}
	log.Printf("server: %v", err)
	c.String(http.StatusInternalServerError, "Internal Server Error")
}

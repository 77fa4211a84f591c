// Package guard holds the wire types and service descriptor of the
// profileguard.v1.Guard gRPC service. Messages travel as JSON through the
// codec registered in codec.go.
package guard

// Ids travel as decimal strings.

type EnrollRequest struct {
	UserId string   `json:"user_id"`
	Images [][]byte `json:"images"`
}

type VerifyRequest struct {
	UserId string   `json:"user_id"`
	Images [][]byte `json:"images"`
	// Record appends a login verification record of the outcome.
	Record bool `json:"record,omitempty"`
}

type VerificationResponse struct {
	Verified bool    `json:"verified"`
	Score    float64 `json:"score"`
	RecordId string  `json:"record_id,omitempty"`
}

type RecordSwipeRequest struct {
	ActorUserId  string `json:"actor_user_id"`
	TargetUserId string `json:"target_user_id"`
	Action       string `json:"action"`
}

type RecordSwipeResponse struct {
	Matched bool   `json:"matched"`
	MatchId string `json:"match_id,omitempty"`
}

type FirstMessageRequest struct {
	UserId string `json:"user_id"`
	RoomId string `json:"room_id"`
}

type UserRequest struct {
	UserId string `json:"user_id"`
}

type DecisionResponse struct {
	Allowed bool `json:"allowed"`
}

type Match struct {
	MatchId     string `json:"match_id"`
	OtherUserId string `json:"other_user_id"`
	Status      string `json:"status"`
	MatchedAt   int64  `json:"matched_at"`
}

type ListMatchesResponse struct {
	Matches []*Match `json:"matches"`
}

type ListLikedYouRequest struct {
	RecipientUserId string  `json:"recipient_user_id"`
	PaginationToken *string `json:"pagination_token,omitempty"`
	// NewOnly drops likers the recipient already liked back.
	NewOnly bool   `json:"new_only,omitempty"`
	Limit   uint32 `json:"limit,omitempty"`
}

type Liker struct {
	ActorId       string `json:"actor_id"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
}

type ListLikedYouResponse struct {
	Likers              []*Liker `json:"likers"`
	NextPaginationToken *string  `json:"next_pagination_token,omitempty"`
}

type CountLikedYouResponse struct {
	Count uint64 `json:"count"`
}

type SendMessageRequest struct {
	SenderUserId string `json:"sender_user_id"`
	RoomId       string `json:"room_id"`
	Content      string `json:"content"`
}

type SendMessageResponse struct {
	MessageId string `json:"message_id"`
	CreatedAt int64  `json:"created_at"`
}

type OpenChatRequest struct {
	UserId  string `json:"user_id"`
	MatchId string `json:"match_id"`
}

type OpenChatResponse struct {
	RoomId string `json:"room_id"`
}

type PhotoUpload struct {
	ImageKey string `json:"image_key"`
	Image    []byte `json:"image"`
}

type AddPhotoRequest struct {
	UserId string       `json:"user_id"`
	Photo  *PhotoUpload `json:"photo"`
}

type ReplacePhotosRequest struct {
	UserId string         `json:"user_id"`
	Photos []*PhotoUpload `json:"photos"`
}

type Photo struct {
	PhotoId   string `json:"photo_id"`
	ImageKey  string `json:"image_key"`
	Position  uint32 `json:"position"`
	Primary   bool   `json:"primary"`
	Verified  bool   `json:"verified"`
	CreatedAt int64  `json:"created_at"`
}

type PhotoResponse struct {
	Photo *Photo `json:"photo"`
}

type ListPhotosResponse struct {
	Photos []*Photo `json:"photos"`
}

type PromptQuestion struct {
	QuestionId string `json:"question_id"`
	Question   string `json:"question"`
	Order      int32  `json:"order"`
}

type ListPromptQuestionsRequest struct{}

type ListPromptQuestionsResponse struct {
	Questions []*PromptQuestion `json:"questions"`
}

type PromptAnswer struct {
	QuestionId string `json:"question_id"`
	Answer     string `json:"answer"`
}

// SavePromptAnswersRequest entries with an empty question id or a blank
// answer are skipped.
type SavePromptAnswersRequest struct {
	UserId  string          `json:"user_id"`
	Answers []*PromptAnswer `json:"answers"`
}

type PromptAnswersResponse struct {
	Answers []*PromptAnswer `json:"answers"`
}

type UserPageRequest struct {
	UserId string `json:"user_id"`
	Limit  uint32 `json:"limit,omitempty"`
}

type Candidate struct {
	UserId   string `json:"user_id"`
	Username string `json:"username"`
	Gender   string `json:"gender"`
	Verified bool   `json:"verified"`
}

type PotentialMatchesResponse struct {
	Candidates []*Candidate `json:"candidates"`
}

type LikedUser struct {
	UserId        string `json:"user_id"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
}

type ListLikedResponse struct {
	Liked []*LikedUser `json:"liked"`
}

type BlockRequest struct {
	BlockerUserId string `json:"blocker_user_id"`
	BlockedUserId string `json:"blocked_user_id"`
	Reason        string `json:"reason,omitempty"`
}

type ChangedResponse struct {
	Changed bool `json:"changed"`
}

type BlockedUser struct {
	UserId    string `json:"user_id"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt int64  `json:"created_at"`
}

type ListBlockedResponse struct {
	Blocked []*BlockedUser `json:"blocked"`
}

type ReportRequest struct {
	ReporterUserId string `json:"reporter_user_id"`
	ReportedUserId string `json:"reported_user_id"`
	Reason         string `json:"reason"`
	Description    string `json:"description,omitempty"`
}

type ListReportsRequest struct {
	// ReportedUserId narrows the list; empty lists every open report.
	ReportedUserId string `json:"reported_user_id,omitempty"`
	Limit          uint32 `json:"limit,omitempty"`
}

type Report struct {
	ReportId       string `json:"report_id"`
	ReporterUserId string `json:"reporter_user_id"`
	ReportedUserId string `json:"reported_user_id"`
	Reason         string `json:"reason"`
	Description    string `json:"description,omitempty"`
	CreatedAt      int64  `json:"created_at"`
}

type ListReportsResponse struct {
	Reports []*Report `json:"reports"`
}

type BanRequest struct {
	UserId         string `json:"user_id"`
	BannedByUserId string `json:"banned_by_user_id,omitempty"`
	Reason         string `json:"reason"`
	// ExpiresAt is unix millis; 0 bans indefinitely.
	ExpiresAt int64 `json:"expires_at,omitempty"`
}

type BanResponse struct {
	BanId     string `json:"ban_id"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

type Room struct {
	RoomId    string `json:"room_id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	MatchId   string `json:"match_id,omitempty"`
	UpdatedAt int64  `json:"updated_at"`
}

type ListRoomsResponse struct {
	Rooms []*Room `json:"rooms"`
}

type ListMessagesRequest struct {
	UserId string `json:"user_id"`
	RoomId string `json:"room_id"`
	Limit  uint32 `json:"limit,omitempty"`
}

type ChatMessage struct {
	MessageId    string `json:"message_id"`
	SenderUserId string `json:"sender_user_id"`
	Content      string `json:"content"`
	Read         bool   `json:"read"`
	CreatedAt    int64  `json:"created_at"`
}

type ListMessagesResponse struct {
	Messages []*ChatMessage `json:"messages"`
}

type RoomRequest struct {
	UserId string `json:"user_id"`
	RoomId string `json:"room_id"`
}

type MarkReadResponse struct {
	Updated uint64 `json:"updated"`
}

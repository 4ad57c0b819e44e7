package review

type ReplyRequest struct {
	Reply string `json:"reply" validate:"required,max=2000"`
}

package applications

// submitForm mirrors the multipart fields of the submission endpoint. The
// resume and video files travel as form files next to these.
type submitForm struct {
	Email     string `form:"email"`
	FirstName string `form:"firstName"`
	LastName  string `form:"lastName"`
	Phone     string `form:"phone"`
	JobID     string `form:"jobId"`
	Notes     string `form:"notes"`
}

type applicationResponse struct {
	Application Application `json:"application"`
}

type listResponse struct {
	Applications []Application `json:"applications"`
}

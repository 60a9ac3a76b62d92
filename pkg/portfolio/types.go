package portfolio

// ContactInfo holds the owner's public contact channels.
type ContactInfo struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

// Statistic is a headline number such as "10+ Years of Excellence".
type Statistic struct {
	Number string `json:"number"`
	Label  string `json:"label"`
}

// PersonalInfo represents the hero section data.
type PersonalInfo struct {
	Name     string      `json:"name"`
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle"`
	Contact  ContactInfo `json:"contact"`
	Stats    []Statistic `json:"stats"`
}

// Highlight is one card of the about section.
type Highlight struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AboutInfo represents the about section.
type AboutInfo struct {
	Mission    string      `json:"mission"`
	Highlights []Highlight `json:"highlights"`
}

// Skills maps a category label to the skills listed under it.
type Skills map[string][]string

// WorkExperience is one entry of the experience timeline.
type WorkExperience struct {
	ID           int      `json:"id"`
	Period       string   `json:"period"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Type         string   `json:"type,omitempty"`
	Achievements []string `json:"achievements"`
	Technologies []string `json:"technologies"`
}

// ProjectImpact summarizes what a project achieved.
type ProjectImpact struct {
	Title   string   `json:"title"`
	Metrics []string `json:"metrics"`
}

// Project is a case study.
type Project struct {
	ID           int           `json:"id"`
	Number       string        `json:"number"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Impact       ProjectImpact `json:"impact"`
	Technologies []string      `json:"technologies"`
}

// Education is a degree entry.
type Education struct {
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	Institution string `json:"institution"`
	Year        string `json:"year"`
}

// Certification is a professional certification entry.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

// Credentials groups education and certifications.
type Credentials struct {
	Education      []Education     `json:"education"`
	Certifications []Certification `json:"certifications"`
}

// PortfolioData is the composite assembled client-side from the six portfolio resources.
// It is never partially populated: either every source resource was fetched and unwrapped,
// or no PortfolioData exists.
type PortfolioData struct {
	Personal    PersonalInfo     `json:"personal"`
	Skills      Skills           `json:"skills"`
	Experience  []WorkExperience `json:"experience"`
	Projects    []Project        `json:"projects"`
	About       AboutInfo        `json:"about"`
	Credentials Credentials      `json:"credentials"`
	Stats       []Statistic      `json:"stats"`
}

// Assemble builds the composite and derives Stats from Personal.Stats.
func Assemble(personal PersonalInfo, skills Skills, experience []WorkExperience, projects []Project, about AboutInfo, credentials Credentials) (data PortfolioData) {
	data = PortfolioData{
		Personal:    personal,
		Skills:      skills,
		Experience:  experience,
		Projects:    projects,
		About:       about,
		Credentials: credentials,
		Stats:       personal.Stats,
	}
	return data
}

// InquiryType classifies a contact message.
type InquiryType string

// Known inquiry types. The client does not reject other values; the backend decides.
const (
	InquiryGeneral       InquiryType = "general"
	InquiryConsulting    InquiryType = "consulting"
	InquiryEmployment    InquiryType = "employment"
	InquiryCollaboration InquiryType = "collaboration"
)

// ContactSubmission is what a visitor sends through the contact form.
type ContactSubmission struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Company     string      `json:"company,omitempty"`
	Message     string      `json:"message"`
	InquiryType InquiryType `json:"inquiry_type"`
}

// Normalize fills the default inquiry type.
func (s ContactSubmission) Normalize() (normalized ContactSubmission) {
	normalized = s
	if normalized.InquiryType == "" {
		normalized.InquiryType = InquiryGeneral
	}
	return normalized
}

// ContactResult is the backend's answer to a contact submission. ReferenceID is opaque.
type ContactResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	ReferenceID string `json:"reference_id"`
	Error       string `json:"error,omitempty"`
}

// Health is the liveness report from GET /health.
type Health struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Healthy reports whether the backend said it is healthy.
func (h Health) Healthy() (healthy bool) {
	healthy = h.Status == "healthy"
	return healthy
}

// TrackResult reports the outcome of a best-effort analytics call. A failure is recorded in
// Err with Ignored set; it is never returned as an error.
type TrackResult struct {
	Recorded bool
	Ignored  bool
	Err      error
}

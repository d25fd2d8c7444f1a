package api

import "fmt"

// Course is one enrolled course with its per-course average.
// The order of a profile's course list matters: the first entry is the
// dashboard's default selection.
type Course struct {
	ClassID string  `json:"class_id"`
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

// StudentProfile is the decoded /api/student/{id} payload. The backend
// does not always send the presentation fields (name, major, learning
// style, interest); ApplyDefaults fills those in one place so screens
// never see empty values.
type StudentProfile struct {
	UserID              int      `json:"user_id"`
	Name                string   `json:"name"`
	Major               string   `json:"major"`
	LearningStyle       string   `json:"learning_style"`
	Interest            string   `json:"interest"`
	GPA                 float64  `json:"gpa"`
	AverageScore        float64  `json:"average_score"`
	Semester            int      `json:"semester"`
	EngagementScore     float64  `json:"engagement_score"`
	PerformanceCategory string   `json:"performance_category"`
	Courses             []Course `json:"courses"`
	ClusterID           int      `json:"cluster_id"`
}

const (
	DefaultLearningStyle = "Visual"
	DefaultInterest      = "Computer Science"
	DefaultMajor         = "PJJ Informatika"
)

// ApplyDefaults fills the presentation-only fields the backend may omit.
func (p *StudentProfile) ApplyDefaults() {
	if p.Name == "" {
		p.Name = fmt.Sprintf("Mahasiswa %d", p.UserID)
	}
	if p.Major == "" {
		p.Major = DefaultMajor
	}
	if p.LearningStyle == "" {
		p.LearningStyle = DefaultLearningStyle
	}
	if p.Interest == "" {
		p.Interest = DefaultInterest
	}
}

// Validate rejects payloads that decoded but are not usable as a profile.
func (p *StudentProfile) Validate() error {
	if p.UserID == 0 {
		return fmt.Errorf("profile payload missing user_id")
	}
	return nil
}

// QuizDetail is one quiz/assignment grade for a (student, class) pair.
type QuizDetail struct {
	QuizName string  `json:"quiz_name"`
	FullName string  `json:"full_name"`
	Score    float64 `json:"score"`
}

// AdminSummary is the global overview shown on the admin landing view.
type AdminSummary struct {
	TotalStudents int     `json:"total_students"`
	AvgGPA        float64 `json:"avg_gpa"`
	AtRiskCount   int     `json:"at_risk_count"`
}

// ClassSummary is one class card in the admin classes view.
type ClassSummary struct {
	ClassID      string  `json:"class_id"`
	ClassName    string  `json:"class_name"`
	StudentCount int     `json:"student_count"`
	AvgScore     float64 `json:"avg_score"`
}

// StudentRow is one roster row in the admin students view.
type StudentRow struct {
	ID         int     `json:"id"`
	GPA        float64 `json:"gpa"`
	Status     string  `json:"status"`
	Cluster    string  `json:"cluster"`
	Score      float64 `json:"score"`
	Activities int     `json:"activities"`
}

// MaterialTypeVideo marks materials that render in the curated video
// grid; every other type goes to the generic reference list.
const MaterialTypeVideo = "Specific_Video"

// Material is one recommended learning resource.
type Material struct {
	Title     string `json:"title"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	VideoID   string `json:"video_id"`
}

// Recommendation is the full AI analysis result. Each analysis replaces
// the previous result wholesale.
type Recommendation struct {
	Status          string     `json:"status"`
	MatchPercentage float64    `json:"match_percentage"`
	Strategy        string     `json:"strategy"`
	Materials       []Material `json:"materials"`
	Tips            string     `json:"tips"`
	WeakSubject     string     `json:"weak_subject"`
	PeerGroup       []string   `json:"peer_group"`
	Mentor          string     `json:"mentor"`
	PredictedScore  float64    `json:"predicted_score"`
	OptimalTime     string     `json:"optimal_time"`
}

// SplitMaterials partitions materials for display: curated videos first,
// everything else as plain references. No item appears in both.
func (r *Recommendation) SplitMaterials() (videos, refs []Material) {
	for _, m := range r.Materials {
		if m.Type == MaterialTypeVideo {
			videos = append(videos, m)
		} else {
			refs = append(refs, m)
		}
	}
	return videos, refs
}

package portfolio

import "time"

// Analysis is the complete result of one run.
type Analysis struct {
	Profile             ProfileSummary      `json:"profile"`
	GeneratedAt         time.Time           `json:"generatedAt"`
	Weights             Subscores           `json:"weights"`
	Subscores           Subscores           `json:"subscores"`
	OverallScore        int                 `json:"overallScore"`
	HireabilityScore    int                 `json:"hireabilityScore"`
	Readiness           Readiness           `json:"readiness"`
	ReadinessLevel      string              `json:"readinessLevel"`
	Metrics             Metrics             `json:"metrics"`
	Strengths           []string            `json:"strengths"`
	RedFlags            []string            `json:"redFlags"`
	Suggestions         []string            `json:"suggestions"`
	HiddenRisks         []string            `json:"hiddenRisks"`
	RecruiterSimulation RecruiterSimulation `json:"recruiterSimulation"`
	CareerPath          CareerPath          `json:"careerPath"`
	ImprovementRoadmap  []string            `json:"improvementRoadmap"`
	PinnedRepos         PinnedRepos         `json:"pinnedRepos"`
	RankedRepos         []RankedRepo        `json:"rankedRepos"`
	LanguageTotals      map[string]int64    `json:"languageTotals"`
	Grade               string              `json:"grade"`
	ScoreSummary        string              `json:"scoreSummary"`
}

// ProfileSummary is the profile as presented in the result.
type ProfileSummary struct {
	Login       string     `json:"login"`
	Name        string     `json:"name"`
	HTMLURL     string     `json:"htmlUrl"`
	Followers   int        `json:"followers"`
	Following   int        `json:"following"`
	PublicRepos int        `json:"publicRepos"`
	AvatarURL   string     `json:"avatarUrl"`
	Bio         string     `json:"bio"`
	CreatedAt   *time.Time `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

// Summarize fills presentation defaults: the login stands in for a missing
// name, and an empty bio gets a placeholder.
func Summarize(p Profile) ProfileSummary {
	s := ProfileSummary{
		Login:       p.Login,
		Name:        p.Name,
		HTMLURL:     p.HTMLURL,
		Followers:   p.Followers,
		Following:   p.Following,
		PublicRepos: p.PublicRepos,
		AvatarURL:   p.AvatarURL,
		Bio:         p.Bio,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if s.Name == "" {
		s.Name = p.Login
	}
	if s.Bio == "" {
		s.Bio = "No bio provided."
	}
	return s
}

// ActivityBuckets partitions repositories by days since last push.
type ActivityBuckets struct {
	Updated30d      int `json:"updated30d"`
	Updated31to90d  int `json:"updated31to90d"`
	Updated91to180d int `json:"updated91to180d"`
	Updated181Plus  int `json:"updated181plus"`
}

// Metrics are the aggregates the subscores and insight rules read.
type Metrics struct {
	ScorableRepoCount  int      `json:"scorableRepoCount"`
	TotalStars         int      `json:"totalStars"`
	TotalForks         int      `json:"totalForks"`
	TotalWatchers      int      `json:"totalWatchers"`
	ReadmeCoverage     float64  `json:"readmeCoverage"`
	ReposUpdated30d    int      `json:"reposUpdated30d"`
	ReposUpdated90d    int      `json:"reposUpdated90d"`
	DaysSinceLastPush  int      `json:"daysSinceLastPush"`
	AuthoredPRCount    int      `json:"authoredPRCount"`
	AuthoredIssueCount int      `json:"authoredIssueCount"`
	UniqueLanguages    int      `json:"uniqueLanguages"`
	TopLanguages       []string `json:"topLanguages"`
	DominantLanguage   string   `json:"dominantLanguage"`
	DominantShare      float64  `json:"dominantLanguageShare"`

	DescriptionCoverage     float64         `json:"descriptionCoverage"`
	DescriptionlessRatio    float64         `json:"descriptionlessRatio"`
	ActiveMonthsLast6       int             `json:"activeMonthsLast6"`
	ActiveMonthsLast6Ratio  float64         `json:"activeMonthsLast6Ratio"`
	ReposInactive180d       int             `json:"reposInactive180d"`
	ReposInactive180dRatio  float64         `json:"reposInactive180dRatio"`
	EmptyRepoRatio          float64         `json:"emptyRepoRatio"`
	NonEmptyRepoRatio       float64         `json:"nonEmptyRepoRatio"`
	HomepageRatio           float64         `json:"homepageRatio"`
	TopicsRatio             float64         `json:"topicsRatio"`
	StarsPerRepo            float64         `json:"starsPerRepo"`
	ForksPerRepo            float64         `json:"forksPerRepo"`
	WatchersPerRepo         float64         `json:"watchersPerRepo"`
	ReposUpdated30dRatio    float64         `json:"reposUpdated30dRatio"`
	ReposUpdated90dRatio    float64         `json:"reposUpdated90dRatio"`
	RecencyBucket           float64         `json:"recencyBucket"`
	TopRepoStars            int             `json:"topRepoStars"`
	NormalizedEntropy       float64         `json:"normalizedShannonEntropy"`
	ReadmeSampleSize        int             `json:"readmeSampleSize"`
	LastPushDate            *time.Time      `json:"lastPushDate"`
	PartialReadmeFailures   int             `json:"partialReadmeFailures"`
	PartialLanguageFailures int             `json:"partialLanguageFailures"`
	PartialFailures         int             `json:"partialFailures"`
	DeepRepoCount           int             `json:"deepRepoCount"`
	LanguageChecked         int             `json:"languageChecked"`
	ReadmeChecked           int             `json:"readmeChecked"`
	ActivityBuckets         ActivityBuckets `json:"activityBuckets"`
}

// RankedRepo is a repository with its normalized importance.
type RankedRepo struct {
	Name           string     `json:"name"`
	URL            string     `json:"url"`
	Importance     int        `json:"importance"`
	Stars          int        `json:"stars"`
	Forks          int        `json:"forks"`
	Watchers       int        `json:"watchers"`
	PushedAt       *time.Time `json:"pushedAt"`
	HasReadme      bool       `json:"hasReadme"`
	ReadmeKnown    bool       `json:"readmeKnown"`
	Language       string     `json:"language"`
	Homepage       string     `json:"homepage"`
	TopicsCount    int        `json:"topicsCount"`
	HasDescription bool       `json:"hasDescription"`
	IsEmpty        bool       `json:"isEmpty"`
}

// Severity levels shared by readiness and the recruiter verdict.
const (
	SeverityGood = "good"
	SeverityWarn = "warn"
	SeverityRisk = "risk"
)

// Readiness is the blended readiness band.
type Readiness struct {
	Label    string `json:"label"`
	Severity string `json:"severity"`
	Percent  int    `json:"percent"`
	Summary  string `json:"summary"`
}

// RecruiterSimulation is the simulated screening verdict.
type RecruiterSimulation struct {
	Verdict string   `json:"verdict"`
	Level   string   `json:"level"`
	Summary string   `json:"summary"`
	Signals []string `json:"signals"`
}

// CareerPath is the recommended role track.
type CareerPath struct {
	Title      string   `json:"title"`
	Confidence int      `json:"confidence"`
	Summary    string   `json:"summary"`
	NextSkills []string `json:"nextSkills"`
}

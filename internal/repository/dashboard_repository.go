package repository

import (
	"context"
)

// DashboardRepository handles dashboard aggregate queries.
type DashboardRepository struct {
	db DBTX
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(db DBTX) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// GetSummaryCounts retrieves the high-level record counts.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (totalStudents, totalCourses, totalEnrollments int, err error) {
	err = r.db.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM students),
			(SELECT COUNT(*) FROM courses),
			(SELECT COUNT(*) FROM enrollments)`,
	).Scan(&totalStudents, &totalCourses, &totalEnrollments)
	return
}

// ScoreBucket is the number of graded enrollments whose score rounds to Score.
type ScoreBucket struct {
	Score int `json:"score"`
	Count int `json:"count"`
}

// GetScoreDistribution groups graded enrollments by score rounded to the nearest integer.
func (r *DashboardRepository) GetScoreDistribution(ctx context.Context) ([]ScoreBucket, error) {
	rows, err := r.db.Query(ctx,
		`SELECT ROUND(score)::int AS bucket, COUNT(*)
		 FROM enrollments
		 WHERE score IS NOT NULL
		 GROUP BY bucket
		 ORDER BY bucket`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []ScoreBucket
	for rows.Next() {
		var b ScoreBucket
		if err := rows.Scan(&b.Score, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// CourseEnrollmentCount is a course ranked by how many enrollments it has.
type CourseEnrollmentCount struct {
	CourseID   int    `json:"course_id"`
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
	Count      int    `json:"count"`
}

// GetTopCourses retrieves the courses with the most enrollments, including
// courses nobody has enrolled in yet when there are fewer than limit.
func (r *DashboardRepository) GetTopCourses(ctx context.Context, limit int) ([]CourseEnrollmentCount, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.code, c.name, COUNT(e.id) AS total
		 FROM courses c
		 LEFT JOIN enrollments e ON e.course_id = c.id
		 GROUP BY c.id, c.code, c.name
		 ORDER BY total DESC, c.code
		 LIMIT $1`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []CourseEnrollmentCount
	for rows.Next() {
		var c CourseEnrollmentCount
		if err := rows.Scan(&c.CourseID, &c.CourseCode, &c.CourseName, &c.Count); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/okian/edumetrics/internal/adapters/http/api"
	service "github.com/okian/edumetrics/internal/app"
	"github.com/okian/edumetrics/internal/domain/advice"
	"github.com/okian/edumetrics/internal/domain/grading"
	"github.com/okian/edumetrics/internal/domain/report"
	"github.com/okian/edumetrics/internal/domain/student"
	. "github.com/smartystreets/goconvey/convey"
)

const validRecord = `{
	"hours_studied": 10,
	"attendance_pct": 80,
	"previous_score_avg": 70,
	"tutoring_sessions_per_month": 0,
	"sleep_hours": 7,
	"physical_activity_hours": 3,
	"family_income": "Medium",
	"parental_involvement": "Medium",
	"teacher_quality": "Medium",
	"motivation_level": "Medium",
	"peer_influence": "Neutral",
	"extracurricular_activities": "Yes",
	"internet_access": "Yes",
	"learning_disabilities": "No",
	"gender": "Female",
	"distance_from_home": "Near",
	"parental_education": "High School",
	"school_type": "Public"
}`

// Mock implementations for testing
type mockDependencies struct {
	forecastErr error
	adviceErr   error
	health      api.Health
	got         []student.Record
}

func (m *mockDependencies) Forecast(_ context.Context, rec student.Record) (report.Report, error) {
	m.got = append(m.got, rec)
	if m.forecastErr != nil {
		return report.Report{}, m.forecastErr
	}
	return report.Report{
		ID:    "r-1",
		Score: 72.4,
		Tier:  grading.Describe(grading.TierPass),
		Advice: []advice.Item{
			{Rule: advice.RuleAttendance, Title: "Attendance"},
		},
	}, nil
}

func (m *mockDependencies) Advice(_ context.Context, rec student.Record) ([]advice.Item, error) {
	m.got = append(m.got, rec)
	if m.adviceErr != nil {
		return nil, m.adviceErr
	}
	return []advice.Item{{Rule: advice.RuleSleep}}, nil
}

func (m *mockDependencies) Health(context.Context) api.Health {
	return m.health
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newRouter(deps *mockDependencies, stats *mockStatsProvider) *mux.Router {
	r := mux.NewRouter()
	api.NewServer(deps, stats).Register(context.Background(), r)
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
	return body
}

func TestServer_Register(t *testing.T) {
	Convey("Given a new API server", t, func() {
		deps := &mockDependencies{health: api.Health{Status: service.StatusOK, ModelLoaded: true}}
		r := newRouter(deps, &mockStatsProvider{stats: map[string]interface{}{"forecasts": 3}})

		Convey("Then health endpoint should be accessible", func() {
			w := serve(r, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("And metrics endpoint should expose the registry", func() {
			serve(r, http.MethodGet, "/healthz", "")
			w := serve(r, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "edumetrics_forecast_http_requests_total")
		})

		Convey("And stats endpoint should be accessible", func() {
			w := serve(r, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"forecasts":3`)
		})

		Convey("And wrong methods are rejected", func() {
			w := serve(r, http.MethodGet, "/v1/forecasts", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})

		Convey("And unknown paths are not found", func() {
			w := serve(r, http.MethodGet, "/leaderboard", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})

	Convey("Given a nil router", t, func() {
		srv := api.NewServer(&mockDependencies{}, &mockStatsProvider{})
		So(func() { srv.Register(context.Background(), nil) }, ShouldPanic)
	})
}

func TestForecastHandler(t *testing.T) {
	Convey("Given a forecast endpoint", t, func() {
		deps := &mockDependencies{}
		r := newRouter(deps, &mockStatsProvider{})

		Convey("When posting a complete record", func() {
			w := serve(r, http.MethodPost, "/v1/forecasts", validRecord)

			Convey("Then it returns the report", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")

				var rep report.Report
				So(json.Unmarshal(w.Body.Bytes(), &rep), ShouldBeNil)
				So(rep.Score, ShouldEqual, 72.4)
				So(rep.Tier.Tier, ShouldEqual, grading.TierPass)
			})

			Convey("And the record reaches the service intact", func() {
				So(len(deps.got), ShouldEqual, 1)
				So(deps.got[0].HoursStudied, ShouldEqual, 10.0)
				So(deps.got[0].ParentalEducation, ShouldEqual, student.EducationHighSchool)
			})
		})

		Convey("When the body is not JSON", func() {
			w := serve(r, http.MethodPost, "/v1/forecasts", "not json")

			Convey("Then it returns bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
				So(len(deps.got), ShouldEqual, 0)
			})
		})

		Convey("When a field is missing", func() {
			body := strings.Replace(validRecord, `"sleep_hours": 7,`, "", 1)
			w := serve(r, http.MethodPost, "/v1/forecasts", body)

			Convey("Then the message names it", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["message"], ShouldContainSubstring, "sleep_hours")
			})
		})

		Convey("When an unknown field is sent", func() {
			body := strings.Replace(validRecord, `"hours_studied"`, `"hours_studid"`, 1)
			w := serve(r, http.MethodPost, "/v1/forecasts", body)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a value is out of range", func() {
			body := strings.Replace(validRecord, `"hours_studied": 10`, `"hours_studied": 41`, 1)
			w := serve(r, http.MethodPost, "/v1/forecasts", body)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a category is outside the vocabulary", func() {
			body := strings.Replace(validRecord, `"gender": "Female"`, `"gender": "Other"`, 1)
			w := serve(r, http.MethodPost, "/v1/forecasts", body)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service cannot forecast", func() {
			deps.forecastErr = fmt.Errorf("%w: boom", service.ErrForecastUnavailable)
			w := serve(r, http.MethodPost, "/v1/forecasts", validRecord)

			Convey("Then it returns service unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(decodeError(w)["code"], ShouldEqual, "unavailable")
			})
		})

		Convey("When the service is not started", func() {
			deps.forecastErr = service.ErrNotStarted
			w := serve(r, http.MethodPost, "/v1/forecasts", validRecord)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})

		Convey("When the service rejects the record", func() {
			deps.forecastErr = fmt.Errorf("%w: hours", student.ErrInvalidRecord)
			w := serve(r, http.MethodPost, "/v1/forecasts", validRecord)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service fails unexpectedly", func() {
			deps.forecastErr = fmt.Errorf("disk on fire")
			w := serve(r, http.MethodPost, "/v1/forecasts", validRecord)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestAdviceHandler(t *testing.T) {
	Convey("Given an advice endpoint", t, func() {
		deps := &mockDependencies{}
		r := newRouter(deps, &mockStatsProvider{})

		Convey("When posting a complete record", func() {
			w := serve(r, http.MethodPost, "/v1/advice", validRecord)

			Convey("Then only advice items are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Advice []advice.Item `json:"advice"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(len(body.Advice), ShouldEqual, 1)
				So(body.Advice[0].Rule, ShouldEqual, advice.RuleSleep)
			})
		})

		Convey("When the body is empty", func() {
			w := serve(r, http.MethodPost, "/v1/advice", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestCatalogHandler(t *testing.T) {
	Convey("Given the catalog endpoints", t, func() {
		r := newRouter(&mockDependencies{}, &mockStatsProvider{})

		Convey("When listing tiers", func() {
			w := serve(r, http.MethodGet, "/v1/tiers", "")

			Convey("Then every tier and threshold is present", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Tiers      []grading.Info     `json:"tiers"`
					Thresholds map[string]float64 `json:"thresholds"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(len(body.Tiers), ShouldEqual, 3)
				So(body.Tiers[0].Tier, ShouldEqual, grading.TierDistinction)
				So(body.Thresholds["distinction"], ShouldEqual, 80.0)
				So(body.Thresholds["pass"], ShouldEqual, 60.0)
			})
		})

		Convey("When reading the schema", func() {
			w := serve(r, http.MethodGet, "/v1/schema", "")

			Convey("Then it lists every training column", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Fields []student.Field `json:"fields"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(len(body.Fields), ShouldEqual, len(student.Schema()))
				So(body.Fields[0].Name, ShouldEqual, student.FieldHoursStudied)
			})
		})
	})
}

func TestHealthHandler(t *testing.T) {
	Convey("Given a degraded service", t, func() {
		deps := &mockDependencies{health: api.Health{Status: service.StatusDegraded}}
		r := newRouter(deps, &mockStatsProvider{})

		Convey("When handling health check request", func() {
			w := serve(r, http.MethodGet, "/healthz", "")

			Convey("Then it still answers OK with the degraded status", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var h api.Health
				So(json.Unmarshal(w.Body.Bytes(), &h), ShouldBeNil)
				So(h.Status, ShouldEqual, service.StatusDegraded)
				So(h.ModelLoaded, ShouldBeFalse)
			})
		})
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a wrapped handler", t, func() {
		h := api.MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			_, _ = w.Write([]byte("short and stout"))
		}, "teapot")

		Convey("When it is called", func() {
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, "/teapot", http.NoBody))

			Convey("Then the status and body pass through", func() {
				So(w.Code, ShouldEqual, http.StatusTeapot)
				So(w.Body.String(), ShouldEqual, "short and stout")
			})
		})
	})
}

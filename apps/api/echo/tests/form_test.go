package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/darasa/core/poll"
	testutil "github.com/trezcool/darasa/tests"
)

var pollQuestions = []poll.Question{
	{Text: "Favourite colour?", Options: []string{"Red", "Blue"}},
	{Text: "Favourite pet?", Options: []string{"Cat", "Dog"}},
}

func TestFormAPI_Create(t *testing.T) {
	app := setup(t)
	instToken := getToken(t, instructor)
	stdToken := getToken(t, student)

	tests := []httpTest{
		{
			name:     "unauthenticated",
			body:     []byte(`{"title": "Colours", "kind": "poll"}`),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errAuthRequired),
		},
		{
			name:     "student",
			body:     []byte(`{"title": "Colours", "kind": "poll"}`),
			token:    stdToken,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "blank title & bad kind",
			body:     []byte(`{"title": "   ", "kind": "quiz"}`),
			token:    instToken,
			wantCode: http.StatusBadRequest,
			extra:    []string{"title", "kind"},
		},
		{
			name:     "qna with options",
			body:     []byte(`{"title": "Ask me", "kind": "qna", "questions": [{"text": "Why?", "options": ["Because"]}]}`),
			token:    instToken,
			wantCode: http.StatusBadRequest,
			extra:    []string{"questions[0].options"},
		},
		{
			name:     "blank question",
			body:     []byte(`{"title": "Colours", "kind": "poll", "questions": [{"text": " "}]}`),
			token:    instToken,
			wantCode: http.StatusBadRequest,
			extra:    []string{"text"},
		},
		{
			name:     "success",
			body:     []byte(`{"title": " Colours ", "kind": "POLL", "questions": [{"text": "Favourite colour?", "options": ["Red", "Blue"]}]}`),
			token:    instToken,
			wantCode: http.StatusCreated,
		},
	}

	for _, tc := range tests {
		tc.method = http.MethodPost
		tc.path = "/v1/forms"
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(app, tc)
			checkCodeAndData(t, tc, rec)

			if fields, ok := tc.extra.([]string); ok {
				assertFields(t, rec, fields...)
			}
			if tc.wantCode == http.StatusCreated {
				var form poll.Form
				decode(t, rec, &form)
				assert.NotEmpty(t, form.ID)
				assert.Equal(t, "Colours", form.Title)
				assert.Equal(t, poll.KindPoll, form.Kind)
				assert.Equal(t, instructor.Name, form.Author)
				assert.Equal(t, null.StringFrom(instructor.Institution), form.Institution)
				assert.Equal(t, []string{"Red", "Blue"}, form.Questions[0].Options)

				stored, err := pollRepo.GetForm(context.Background(), form.ID)
				assert.NoError(t, err)
				assert.Equal(t, form.Title, stored.Title)
			}
		})
	}
}

func TestFormAPI_Query(t *testing.T) {
	app := setup(t)
	now := time.Now()

	f1 := testutil.CreateForm(t, pollRepo, "f1", "Old", poll.KindPoll, pollQuestions, "uni-1", false, now.Add(-2*time.Hour))
	f2 := testutil.CreateForm(t, pollRepo, "f2", "New", poll.KindPoll, pollQuestions, "uni-1", false, now.Add(-time.Hour))
	f3 := testutil.CreateForm(t, pollRepo, "f3", "Pinned", poll.KindQnA, nil, "uni-1", true, now.Add(-3*time.Hour))
	f4 := testutil.CreateForm(t, pollRepo, "f4", "Elsewhere", poll.KindPoll, pollQuestions, "uni-2", false, now)

	tests := []httpTest{
		{
			name:     "anonymous, unscoped",
			path:     "/v1/forms",
			wantData: marchallList(t, f3, f4, f2, f1),
		},
		{
			name:     "admin sees everything",
			path:     "/v1/forms",
			token:    getToken(t, admin),
			wantData: marchallList(t, f3, f4, f2, f1),
		},
		{
			name:     "scoped by token",
			path:     "/v1/forms",
			token:    getToken(t, student),
			wantData: marchallList(t, f3, f2, f1),
		},
		{
			name:     "scoped by header",
			path:     "/v1/forms",
			header:   institutionHeader("uni-2"),
			wantData: marchallList(t, f4),
		},
		{
			name:     "scoped by query param",
			path:     "/v1/forms?institution=uni-2",
			wantData: marchallList(t, f4),
		},
		{
			name:     "token wins over header",
			path:     "/v1/forms",
			token:    getToken(t, student),
			header:   institutionHeader("uni-2"),
			wantData: marchallList(t, f3, f2, f1),
		},
		{
			name:     "limit",
			path:     "/v1/forms?limit=2",
			wantData: marchallList(t, f3, f4),
		},
		{
			name:     "invalid limit uses default",
			path:     "/v1/forms?limit=abc",
			wantData: marchallList(t, f3, f4, f2, f1),
		},
		{
			name:     "no forms",
			path:     "/v1/forms?institution=uni-3",
			wantData: marchallList(t),
		},
	}

	for _, tc := range tests {
		tc.method = http.MethodGet
		if tc.wantCode == 0 {
			tc.wantCode = http.StatusOK
		}
		t.Run(tc.name, func(t *testing.T) {
			checkCodeAndData(t, tc, serve(app, tc))
		})
	}
}

func TestFormAPI_Retrieve(t *testing.T) {
	app := setup(t)
	form := testutil.CreateForm(t, pollRepo, "f1", "Colours", poll.KindPoll, pollQuestions, "uni-1", false)
	global := testutil.CreateForm(t, pollRepo, "f2", "Everyone", poll.KindPoll, pollQuestions, "", false)

	tests := []httpTest{
		{
			name:     "not found",
			path:     "/v1/forms/unknown",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, errNotFound),
		},
		{
			name:     "other institution",
			path:     "/v1/forms/f1",
			token:    getToken(t, outsider),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "other institution by header",
			path:     "/v1/forms/f1",
			header:   institutionHeader("uni-2"),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, errForbidden),
		},
		{
			name:     "anonymous",
			path:     "/v1/forms/f1",
			wantData: marchallObj(t, form),
		},
		{
			name:     "same institution",
			path:     "/v1/forms/f1",
			token:    getToken(t, student),
			wantData: marchallObj(t, form),
		},
		{
			name:     "global form",
			path:     "/v1/forms/f2",
			token:    getToken(t, outsider),
			wantData: marchallObj(t, global),
		},
		{
			name:     "invalid token",
			path:     "/v1/forms/f1",
			token:    "not-a-jwt",
			wantCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range tests {
		tc.method = http.MethodGet
		if tc.wantCode == 0 {
			tc.wantCode = http.StatusOK
		}
		t.Run(tc.name, func(t *testing.T) {
			checkCodeAndData(t, tc, serve(app, tc))
		})
	}
}

func TestFormAPI_Update(t *testing.T) {
	app := setup(t)
	testutil.CreateForm(t, pollRepo, "f1", "Colours", poll.KindPoll, pollQuestions, "uni-1", false)
	testutil.CreateForm(t, pollRepo, "q1", "Ask me", poll.KindQnA, nil, "uni-1", false)
	instToken := getToken(t, instructor)

	tests := []httpTest{
		{
			name:     "unauthenticated",
			path:     "/v1/forms/f1",
			body:     []byte(`{"pinned": true}`),
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "student",
			path:     "/v1/forms/f1",
			body:     []byte(`{"pinned": true}`),
			token:    getToken(t, student),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "other institution",
			path:     "/v1/forms/f1",
			body:     []byte(`{"pinned": true}`),
			token:    getToken(t, outsider),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "not found",
			path:     "/v1/forms/unknown",
			body:     []byte(`{"pinned": true}`),
			token:    instToken,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "blank title",
			path:     "/v1/forms/f1",
			body:     []byte(`{"title": ""}`),
			token:    instToken,
			wantCode: http.StatusBadRequest,
			extra:    []string{"title"},
		},
		{
			name:     "qna options",
			path:     "/v1/forms/q1",
			body:     []byte(`{"questions": [{"text": "Why?"}, {"text": "How?", "options": ["So"]}]}`),
			token:    instToken,
			wantCode: http.StatusBadRequest,
			extra:    []string{"questions[1].options"},
		},
		{
			name:  "success",
			path:  "/v1/forms/f1",
			body:  []byte(`{"title": "Colors", "pinned": true}`),
			token: instToken,
		},
	}

	for _, tc := range tests {
		tc.method = http.MethodPut
		if tc.wantCode == 0 {
			tc.wantCode = http.StatusOK
		}
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(app, tc)
			checkCodeAndData(t, tc, rec)

			if fields, ok := tc.extra.([]string); ok {
				assertFields(t, rec, fields...)
			}
			if tc.wantCode == http.StatusOK {
				form, err := pollRepo.GetForm(context.Background(), "f1")
				assert.NoError(t, err)
				assert.Equal(t, "Colors", form.Title)
				assert.True(t, form.Pinned)
				assert.Equal(t, pollQuestions, form.Questions)
			}
		})
	}
}

func TestFormAPI_SubmitResponse(t *testing.T) {
	app := setup(t)
	testutil.CreateForm(t, pollRepo, "f1", "Colours", poll.KindPoll, pollQuestions, "uni-1", false)

	tests := []httpTest{
		{
			name:     "not found",
			path:     "/v1/forms/unknown/responses",
			body:     []byte(`{"answers": ["Red"]}`),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "other institution",
			path:     "/v1/forms/f1/responses",
			body:     []byte(`{"answers": ["Red"]}`),
			token:    getToken(t, outsider),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "anonymous",
			path:     "/v1/forms/f1/responses",
			body:     []byte(`{"answers": ["Red", "Dog"]}`),
			wantCode: http.StatusCreated,
			extra:    poll.Response{User: poll.DefaultRespondent, Answers: testutil.Answers("Red", "Dog")},
		},
		{
			name:     "student, mismatched shape",
			path:     "/v1/forms/f1/responses",
			body:     []byte(`{"answers": ["Green", null, "Dog", "extra"]}`),
			token:    getToken(t, student),
			wantCode: http.StatusCreated,
			extra:    poll.Response{User: student.Name, Answers: testutil.Answers("Green", nil, "Dog", "extra")},
		},
		{
			name:     "explicit user, loose answers",
			path:     "/v1/forms/f1/responses",
			body:     []byte(`{"user": "Kim", "answers": [1, true, ["Red"]]}`),
			wantCode: http.StatusCreated,
			extra:    poll.Response{User: "Kim", Answers: testutil.Answers("1", "true", nil)},
		},
		{
			name:     "no answers",
			path:     "/v1/forms/f1/responses",
			body:     []byte(`{}`),
			wantCode: http.StatusCreated,
			extra:    poll.Response{User: poll.DefaultRespondent, Answers: []null.String{}},
		},
	}

	for _, tc := range tests {
		tc.method = http.MethodPost
		t.Run(tc.name, func(t *testing.T) {
			rec := serve(app, tc)
			checkCodeAndData(t, tc, rec)

			if want, ok := tc.extra.(poll.Response); ok {
				var got poll.Response
				decode(t, rec, &got)
				assert.Equal(t, "f1", got.FormID)
				assert.Equal(t, want.User, got.User)
				assert.Equal(t, want.Answers, got.Answers)
				assert.NotZero(t, got.Seq)
			}
		})
	}

	resps, err := pollRepo.QueryResponses(context.Background(), "f1")
	assert.NoError(t, err)
	assert.Len(t, resps, 4)
}

func TestFormAPI_Responses(t *testing.T) {
	app := setup(t)
	testutil.CreateForm(t, pollRepo, "f1", "Colours", poll.KindPoll, pollQuestions, "uni-1", false)
	r1 := testutil.AppendResponse(t, pollRepo, "f1", "Sam", testutil.Answers("Red", "Cat")...)
	r2 := testutil.AppendResponse(t, pollRepo, "f1", "Kim", testutil.Answers("Blue")...)

	tests := []httpTest{
		{
			name:     "unauthenticated",
			path:     "/v1/forms/f1/responses",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "student",
			path:     "/v1/forms/f1/responses",
			token:    getToken(t, student),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "other institution",
			path:     "/v1/forms/f1/responses",
			token:    getToken(t, outsider),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "not found",
			path:     "/v1/forms/unknown/responses",
			token:    getToken(t, admin),
			wantCode: http.StatusNotFound,
		},
		{
			name:     "submission order",
			path:     "/v1/forms/f1/responses",
			token:    getToken(t, instructor),
			wantData: marchallList(t, r1, r2),
		},
	}

	for _, tc := range tests {
		tc.method = http.MethodGet
		if tc.wantCode == 0 {
			tc.wantCode = http.StatusOK
		}
		t.Run(tc.name, func(t *testing.T) {
			checkCodeAndData(t, tc, serve(app, tc))
		})
	}
}

func TestFormAPI_Summary(t *testing.T) {
	app := setup(t)
	testutil.CreateForm(t, pollRepo, "f1", "Colours", poll.KindPoll, pollQuestions, "uni-1", false)
	testutil.CreateForm(t, pollRepo, "f2", "Empty", poll.KindPoll, pollQuestions, "uni-1", false)
	testutil.AppendResponse(t, pollRepo, "f1", "a", testutil.Answers("Red", "Cat")...)
	testutil.AppendResponse(t, pollRepo, "f1", "b", testutil.Answers("Blue", "Fish")...)
	testutil.AppendResponse(t, pollRepo, "f1", "c", testutil.Answers("Red")...)
	testutil.AppendResponse(t, pollRepo, "f1", "d", testutil.Answers(nil, "", "Dog")...)
	testutil.AppendResponse(t, pollRepo, "f1", "e", testutil.Answers("Green", "Fish")...)

	summary := poll.Summary{
		TotalResponses: 5,
		Questions: []poll.QuestionSummary{
			{
				Text:             "Favourite colour?",
				Options:          []poll.OptionCount{{Text: "Red", Count: 2}, {Text: "Blue", Count: 1}},
				OtherCount:       1,
				TotalForQuestion: 4,
				OtherAnswers:     []poll.OptionCount{{Text: "Green", Count: 1}},
			},
			{
				Text:             "Favourite pet?",
				Options:          []poll.OptionCount{{Text: "Cat", Count: 1}, {Text: "Dog", Count: 0}},
				OtherCount:       2,
				TotalForQuestion: 3,
				OtherAnswers:     []poll.OptionCount{{Text: "Fish", Count: 2}},
			},
		},
	}
	empty := poll.Summary{
		TotalResponses: 0,
		Questions: []poll.QuestionSummary{
			{
				Text:         "Favourite colour?",
				Options:      []poll.OptionCount{{Text: "Red"}, {Text: "Blue"}},
				OtherAnswers: []poll.OptionCount{},
			},
			{
				Text:         "Favourite pet?",
				Options:      []poll.OptionCount{{Text: "Cat"}, {Text: "Dog"}},
				OtherAnswers: []poll.OptionCount{},
			},
		},
	}
	instToken := getToken(t, instructor)

	tests := []httpTest{
		{
			name:     "unauthenticated",
			path:     "/v1/forms/f1/summary",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "student",
			path:     "/v1/forms/f1/summary",
			token:    getToken(t, student),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "other institution",
			path:     "/v1/forms/f1/summary",
			token:    getToken(t, outsider),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "not found",
			path:     "/v1/forms/unknown/summary",
			token:    instToken,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "summary",
			path:     "/v1/forms/f1/summary",
			token:    instToken,
			wantData: marchallObj(t, summary),
		},
		{
			name:     "no responses",
			path:     "/v1/forms/f2/summary",
			token:    instToken,
			wantData: marchallObj(t, empty),
		},
	}

	for _, tc := range tests {
		tc.method = http.MethodGet
		if tc.wantCode == 0 {
			tc.wantCode = http.StatusOK
		}
		t.Run(tc.name, func(t *testing.T) {
			checkCodeAndData(t, tc, serve(app, tc))
		})
	}
}

func TestFormAPI_Destroy(t *testing.T) {
	app := setup(t)
	testutil.CreateForm(t, pollRepo, "f1", "Colours", poll.KindPoll, pollQuestions, "uni-1", false)
	testutil.AppendResponse(t, pollRepo, "f1", "a", testutil.Answers("Red")...)
	instToken := getToken(t, instructor)

	tests := []httpTest{
		{
			name:     "unauthenticated",
			path:     "/v1/forms/f1",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "student",
			path:     "/v1/forms/f1",
			token:    getToken(t, student),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "other institution",
			path:     "/v1/forms/f1",
			token:    getToken(t, outsider),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "success",
			path:     "/v1/forms/f1",
			token:    instToken,
			wantCode: http.StatusNoContent,
		},
		{
			name:     "already deleted",
			path:     "/v1/forms/f1",
			token:    instToken,
			wantCode: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		tc.method = http.MethodDelete
		t.Run(tc.name, func(t *testing.T) {
			checkCodeAndData(t, tc, serve(app, tc))
		})
	}

	// responses are gone with their form
	resps, err := pollRepo.QueryResponses(context.Background(), "f1")
	assert.NoError(t, err)
	assert.Empty(t, resps)

	tc := httpTest{method: http.MethodGet, path: "/v1/forms/f1/summary", token: instToken, wantCode: http.StatusNotFound}
	checkCodeAndData(t, tc, serve(app, tc))
}

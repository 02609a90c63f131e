package ableclub

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockHTTPClient struct {
	mock.Mock
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	return args.Get(0).(*http.Response), args.Error(1)
}

func listEventsMock() (*http.Response, error) {
	file, err := os.ReadFile("testdata/list_events.json")

	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBuffer(file)),
	}, err
}

func Test_Client_FetchEvents_ShouldBeSuccessful(t *testing.T) {

	assert := assert.New(t)

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "https://www.ableclub.com.tw/api/events/open"
	})).Return(listEventsMock())

	client := NewClient()
	client.SetHTTPClient(mockClient)

	events, err := client.FetchEvents(context.Background())
	assert.NoError(err)

	assert.Len(events, 2)
	assert.Equal("evt-2081", events[0].ID)
	assert.Equal("Python data workshop", events[0].Title)
	assert.Equal("evt-2082", events[1].ID)
}

func Test_Client_FetchEvents_MalformedPayload(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(strings.NewReader(`{"events":[{"title":"no id"}]}`)),
	}, nil)

	client := NewClient()
	client.SetHTTPClient(mockClient)

	_, err := client.FetchEvents(context.Background())
	assert.Error(t, err)
}

func Test_Client_FetchEvents_NonOKStatus(t *testing.T) {

	mockClient := &mockHTTPClient{}
	mockClient.On("Do", mock.Anything).Return(&http.Response{
		StatusCode: 503,
		Body:       io.NopCloser(strings.NewReader("")),
	}, nil)

	client := NewClient()
	client.SetHTTPClient(mockClient)

	_, err := client.FetchEvents(context.Background())
	assert.Error(t, err)
}

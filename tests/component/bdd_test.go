//go:build component
// +build component

package component

func (s *ComponentTestSuite) TestSignup() {
	_, when, then := s.gherkin()

	when().
		aSignupRequestIsIssued()

	then().
		theSignupResponseContainsAValidUser().
		aWelcomeMailEventWillEventuallyBeProduced()
}

func (s *ComponentTestSuite) TestRegistrationLifecycle() {
	given, when, then := s.gherkin()

	given().
		anEventOwnerAndAGuest().
		anEventIsCreated()

	when().
		theGuestRegistersForTheEvent()

	then().
		theGuestAppearsRegistered(true).
		theOwnerSeesAttendees(1).
		theGuestCannotListAttendees()
}

func (s *ComponentTestSuite) TestUnregistration() {
	given, when, then := s.gherkin()

	given().
		anEventOwnerAndAGuest().
		anEventIsCreated()

	when().
		theGuestRegistersForTheEvent().
		theGuestUnregistersFromTheEvent()

	then().
		theGuestAppearsRegistered(false).
		theOwnerSeesAttendees(0)
}

func (s *ComponentTestSuite) TestEventSearch() {
	given, _, then := s.gherkin()

	given().
		anEventOwnerAndAGuest().
		anEventIsCreated()

	then().
		theEventIsFoundBySearch("gopher")
}

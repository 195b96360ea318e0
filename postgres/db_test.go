package postgres_test

import (
	"context"

	"github.com/xy-planning-network/enumfields"
	"github.com/xy-planning-network/enumfields/postgres"
)

func (suite *DBTestSuite) insertShirts() []Shirt {
	suite.T().Helper()

	shirts := []Shirt{
		{Color: colorField.Bind("color", nil), Size: Small},
		{Color: colorField.Bind("color", nil), Size: Medium},
		{Color: colorField.Bind("color", nil)},
	}
	suite.Require().Nil(shirts[0].Color.Set(Red))
	suite.Require().Nil(shirts[1].Color.Set(2))
	suite.Require().Nil(shirts[2].Color.Set("3"))

	suite.Require().Nil(suite.db.Create(&shirts))

	return shirts
}

func (suite *DBTestSuite) TestCreateAndFind() {
	// Arrange
	expected := suite.insertShirts()

	// Act
	var actual []Shirt
	err := suite.db.Order("id").Find(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Len(actual, len(expected))
	for i, shirt := range actual {
		suite.Require().Equal(expected[i].ID, shirt.ID)
		suite.Require().Same(expected[i].Color.EnumMember(), shirt.Color.EnumMember())
		suite.Require().Same(expected[i].Size, shirt.Size)
	}
}

func (suite *DBTestSuite) TestFindInvalidStoredValue() {
	// Arrange
	_ = suite.insertShirts()
	suite.Require().Nil(suite.db.Exec("UPDATE shirts SET size = 'xl' WHERE size IS NULL"))

	// Act
	var actual []Shirt
	err := suite.db.Find(&actual)

	// Assert
	suite.Require().ErrorIs(err, enumfields.ErrInvalidValue)
}

func (suite *DBTestSuite) TestWhereEnum() {
	// Arrange
	_ = suite.insertShirts()

	tcs := []struct {
		name     string
		v        any
		expected int
	}{
		{"member", Green, 1},
		{"raw", 3, 1},
		{"string-form", "Color.RED", 1},
	}

	for _, tc := range tcs {
		suite.Run(tc.name, func() {
			// Act
			var actual []Shirt
			err := suite.db.WhereEnum("color", colorField, tc.v).Find(&actual)

			// Assert
			suite.Require().Nil(err)
			suite.Require().Len(actual, tc.expected)
		})
	}

	// Act
	var actual []Shirt
	err := suite.db.WhereEnum("size", sizeField, nil).Find(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Len(actual, 1)
	suite.Require().Nil(actual[0].Size)

	// Act
	err = suite.db.WhereEnum("size", sizeField, "xl").Find(&actual)

	// Assert
	suite.Require().ErrorIs(err, enumfields.ErrInvalidValue)
}

func (suite *DBTestSuite) TestUpdate() {
	// Arrange
	shirts := suite.insertShirts()

	// Act
	err := suite.db.Model(new(Shirt)).Where("id = ?", shirts[0].ID).Update(postgres.Updates{"color": Blue, "size": Medium})

	// Assert
	suite.Require().Nil(err)

	var actual Shirt
	suite.Require().Nil(suite.db.Where("id = ?", shirts[0].ID).First(&actual))
	suite.Require().True(actual.Color.Is(Blue))
	suite.Require().Same(Medium, actual.Size)
}

func (suite *DBTestSuite) TestBindReloads() {
	// Arrange
	shirts := suite.insertShirts()

	var actual Shirt
	suite.Require().Nil(suite.db.Select("id").Where("id = ?", shirts[1].ID).First(&actual))
	suite.Require().False(actual.Color.IsLoaded())

	// Act
	err := suite.db.Bind(&actual)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Equal("color", actual.Color.Name())

	// Act
	m, err := actual.Color.Get(context.Background())

	// Assert
	suite.Require().Nil(err)
	suite.Require().Same(Green, m)
	suite.Require().True(actual.Color.IsLoaded())
	suite.Require().Equal("color", actual.Color.Name())

	// Act
	actual.Color.Unload()
	m, err = actual.Color.Get(context.Background())

	// Assert
	suite.Require().Nil(err)
	suite.Require().Same(Green, m)
}

func (suite *DBTestSuite) TestReloaderNoPrimaryKey() {
	// Arrange
	var shirt Shirt
	suite.Require().Nil(suite.db.Bind(&shirt))

	// Act
	_, err := shirt.Color.Get(context.Background())

	// Assert
	suite.Require().ErrorIs(err, enumfields.ErrMissingData)
}

func (suite *DBTestSuite) TestFieldStates() {
	// Arrange
	colorCol := postgres.Column{Table: "shirts", Name: "color"}
	sizeCol := postgres.Column{Table: "shirts", Name: "size"}
	declared := map[postgres.Column]*enumfields.Field{colorCol: colorField, sizeCol: sizeField}

	// Act
	planned, err := suite.db.PlanFieldMigrations(declared)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Len(planned, 2)
	for _, m := range planned {
		suite.Require().Contains(m.Key, "alter-enum-column-shirts-")
		suite.Require().Nil(suite.db.DB().Transaction(m.Executor))
	}

	// Act
	err = suite.db.SaveFieldStates(declared)

	// Assert
	suite.Require().Nil(err)

	states, err := suite.db.FieldStates()
	suite.Require().Nil(err)
	suite.Require().Len(states, 2)

	planned, err = suite.db.PlanFieldMigrations(declared)
	suite.Require().Nil(err)
	suite.Require().Empty(planned)

	// Arrange
	declared[sizeCol] = enumfields.MustField(enumfields.NewStringField(Size, enumfields.WithNull(), enumfields.WithBlank(), enumfields.WithMaxLength(4)))

	// Act
	planned, err = suite.db.PlanFieldMigrations(declared)

	// Assert
	suite.Require().Nil(err)
	suite.Require().Len(planned, 1)
	suite.Require().Nil(suite.db.DB().Transaction(planned[0].Executor))

	// Act
	err = suite.db.SaveFieldStates(declared)

	// Assert
	suite.Require().Nil(err)

	states, err = suite.db.FieldStates()
	suite.Require().Nil(err)
	suite.Require().Len(states, 2)
}
